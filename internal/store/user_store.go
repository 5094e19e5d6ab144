package store

import (
	"context"

	"fintrack/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, id, username, email, passwordHash string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, password_hash, created_at
	`, id, username, email, passwordHash)
	return row, err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, password_hash, created_at FROM users WHERE email = $1`, email)
	return row, err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, created_at FROM users WHERE id = $1`, userID)
	return row, err
}
