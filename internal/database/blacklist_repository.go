package database

import (
	"fmt"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// BlacklistRepository handles database operations for the blacklist table.
// A partial unique index guarantees at most one active entry per user.
type BlacklistRepository struct {
	db DB
}

// NewBlacklistRepository creates a new BlacklistRepository
func NewBlacklistRepository(db DB) *BlacklistRepository {
	return &BlacklistRepository{db: db}
}

// GetActive returns the active blacklist entry for a user, or nil when the
// user is not blacklisted
func (r *BlacklistRepository) GetActive(userID string) (*models.BlacklistEntry, error) {
	var entry models.BlacklistEntry
	err := r.db.Get(&entry, `
		SELECT id, user_id, user_name, company, reason, blacklisted_by, blacklisted_at, is_active
		FROM blacklist
		WHERE user_id = $1 AND is_active
		LIMIT 1
	`, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return &entry, nil
}

// ListActive returns all active entries, newest first
func (r *BlacklistRepository) ListActive() ([]models.BlacklistEntry, error) {
	entries := []models.BlacklistEntry{}
	err := r.db.Select(&entries, `
		SELECT id, user_id, user_name, company, reason, blacklisted_by, blacklisted_at, is_active
		FROM blacklist
		WHERE is_active
		ORDER BY blacklisted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	return entries, nil
}

// Add inserts an active blacklist entry; Conflict when the user already has one
func (r *BlacklistRepository) Add(req *models.AddBlacklistRequest) (int64, error) {
	existing, err := r.GetActive(req.UserID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, apperrors.Conflict("User is already blacklisted")
	}

	blacklistedBy := req.BlacklistedBy
	if blacklistedBy == "" {
		blacklistedBy = "admin"
	}

	var company *string
	if req.Company != "" {
		company = &req.Company
	}

	var id int64
	err = r.db.QueryRow(`
		INSERT INTO blacklist (user_id, user_name, company, reason, blacklisted_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.UserID, req.UserName, company, req.Reason, blacklistedBy).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.Conflict("User is already blacklisted")
		}
		return 0, fmt.Errorf("failed to insert blacklist entry: %w", err)
	}
	return id, nil
}

// Remove soft-deactivates the user's active entry
func (r *BlacklistRepository) Remove(userID string) error {
	result, err := r.db.Exec(
		`UPDATE blacklist SET is_active = FALSE WHERE user_id = $1 AND is_active`, userID)
	if err != nil {
		return fmt.Errorf("failed to remove blacklist entry: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("User not found in blacklist")
	}
	return nil
}
