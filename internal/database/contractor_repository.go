package database

import (
	"fmt"
	"strings"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// ContractorRepository handles database operations for the contractors table
type ContractorRepository struct {
	db DB
}

// NewContractorRepository creates a new ContractorRepository
func NewContractorRepository(db DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

// List returns contractor master rows with open-allocation worker counts,
// followed by legacy contractor names that exist only on allocations
func (r *ContractorRepository) List() ([]models.ContractorWithWorkers, error) {
	master := []models.ContractorWithWorkers{}
	err := r.db.Select(&master, `
		SELECT
			c.id,
			c.contractor_code,
			c.name,
			c.company,
			c.phone_number,
			c.email,
			c.created_at,
			c.updated_at,
			COUNT(DISTINCT CASE WHEN a.status = 'BOOKED' THEN a.user_id END) AS worker_count
		FROM contractors c
		LEFT JOIN allocations a
			ON LOWER(TRIM(a.contractor_name)) = LOWER(TRIM(c.name))
		GROUP BY c.id, c.contractor_code, c.name, c.company, c.phone_number, c.email, c.created_at, c.updated_at
		ORDER BY c.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}

	legacy := []models.ContractorWithWorkers{}
	err = r.db.Select(&legacy, `
		SELECT
			NULL::bigint AS id,
			NULL::varchar AS contractor_code,
			TRIM(a.contractor_name) AS name,
			COALESCE(NULLIF(TRIM(u.company), ''), 'N/A') AS company,
			'' AS phone_number,
			'' AS email,
			NULL::timestamptz AS created_at,
			NULL::timestamptz AS updated_at,
			COUNT(DISTINCT CASE WHEN a.status = 'BOOKED' THEN a.user_id END) AS worker_count
		FROM allocations a
		LEFT JOIN users u ON u.user_id = a.user_id
		WHERE a.contractor_name IS NOT NULL
			AND TRIM(a.contractor_name) <> ''
			AND UPPER(TRIM(a.contractor_name)) <> 'N/A'
			AND NOT EXISTS (
				SELECT 1 FROM contractors c
				WHERE LOWER(TRIM(c.name)) = LOWER(TRIM(a.contractor_name))
			)
		GROUP BY TRIM(a.contractor_name), COALESCE(NULLIF(TRIM(u.company), ''), 'N/A')
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy contractors: %w", err)
	}

	return append(master, legacy...), nil
}

// Create registers a contractor master record
func (r *ContractorRepository) Create(req *models.CreateContractorRequest) (int64, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO contractors (contractor_code, name, company, phone_number, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		strings.TrimSpace(req.ContractorCode),
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Company),
		strings.TrimSpace(req.PhoneNumber),
		strings.ToLower(strings.TrimSpace(req.Email)),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperrors.Conflict("Contractor code, email, or phone number already exists")
		}
		return 0, fmt.Errorf("failed to insert contractor: %w", err)
	}
	return id, nil
}
