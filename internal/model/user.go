package model

import "time"

type User struct {
	ID             int       `db:"id"`
	Username       string    `db:"username"`
	Email          string    `db:"email"`
	FullName       string    `db:"full_name"`
	Avatar         *string   `db:"avatar"`
	HashedPassword string    `db:"hashed_password"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
