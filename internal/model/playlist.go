package model

import "time"

type Playlist struct {
	ID          int       `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Description string    `db:"description" json:"description"`
	Owner       int       `db:"owner"       json:"owner"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  json:"updated_at"`
	Videos      []Video   `json:"videos,omitempty"`
}
