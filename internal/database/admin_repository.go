package database

import (
	"fmt"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// AdminRepository handles database operations for the admins table
type AdminRepository struct {
	db DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUsername retrieves an admin account by username
func (r *AdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Get(&admin, `
		SELECT id, username, password_hash, full_name, created_at
		FROM admins
		WHERE username = $1
	`, username)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Admin not found")
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &admin, nil
}

// Create inserts an admin account with an already-hashed password
func (r *AdminRepository) Create(username, passwordHash, fullName string) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO admins (username, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, passwordHash, fullName).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.Conflict("Username already exists")
		}
		return 0, fmt.Errorf("failed to insert admin: %w", err)
	}
	return id, nil
}
