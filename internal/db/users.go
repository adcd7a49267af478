package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/model"
)

func (s *pgStore) CreateUser(username, email, fullName, hashedPassword string) (int, error) {
	var id int
	const q = `
	INSERT INTO users (username, email, full_name, hashed_password, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	RETURNING id;`

	if err := s.db.Get(&id, q, username, email, fullName, hashedPassword); err != nil {
		log.Error().Err(err).Str("email", email).Msg("[db] CreateUser: failed to insert user")
		return 0, err
	}
	return id, nil
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	const q = `
	SELECT id, username, email, full_name, avatar, hashed_password, created_at, updated_at
	FROM users
	WHERE email = $1;`

	if err := s.db.Get(&u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Msg("[db] GetUserByEmail: query failed")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByUsername(username string) (*model.User, error) {
	var u model.User
	const q = `
	SELECT id, username, email, full_name, avatar, hashed_password, created_at, updated_at
	FROM users
	WHERE username = $1;`

	if err := s.db.Get(&u, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		log.Error().Err(err).Msg("[db] GetUserByUsername: query failed")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	const q = `
	SELECT id, username, email, full_name, avatar, hashed_password, created_at, updated_at
	FROM users
	WHERE id = $1;`

	if err := s.db.Get(&u, q, id); err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] GetUserByID: query failed")
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) UpdateUserProfile(id int, fullName string, avatar *string) error {
	_, err := s.db.Exec(`
		UPDATE users
		SET
		full_name  = $2,
		avatar     = COALESCE($3, avatar),
		updated_at = now()
		WHERE id = $1;`,
		id, fullName, avatar,
	)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] UpdateUserProfile: update failed")
	}
	return err
}
