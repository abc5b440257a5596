package database

import (
	"fmt"

	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts a worker or refreshes name and company on an existing row.
// It never fails because the user already exists; allocations rely on this.
func (r *UserRepository) Upsert(userID, name, company string) error {
	if name == "" {
		name = userID
	}

	_, err := r.db.Exec(`
		INSERT INTO users (user_id, name, company, role, password_hash)
		VALUES ($1, $2, $3, 'CONTRACTOR', 'N/A')
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			company = EXCLUDED.company
	`, userID, name, company)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByID retrieves a worker by user id
func (r *UserRepository) GetByID(userID string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT user_id, name, company, role, created_at
		FROM users
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
