package database

import (
	"fmt"

	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// DashboardRepository serves the read-only reporting queries
type DashboardRepository struct {
	db DB
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// BuildingVacancies returns per-building bed totals and free beds for active
// buildings, in creation order
func (r *DashboardRepository) BuildingVacancies() ([]models.BuildingVacancy, error) {
	vacancies := []models.BuildingVacancy{}
	err := r.db.Select(&vacancies, `
		SELECT
			b.name AS building_name,
			COUNT(bed.id) AS total_beds,
			COUNT(CASE WHEN bed.status = 'AVAILABLE' THEN 1 END) AS vacant_beds
		FROM buildings b
		LEFT JOIN floors f ON f.building_id = b.id
		LEFT JOIN rooms r ON r.floor_id = f.id
		LEFT JOIN beds bed ON bed.room_id = r.id
		WHERE b.is_active
		GROUP BY b.id, b.name
		ORDER BY b.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query building vacancies: %w", err)
	}
	return vacancies, nil
}

// ContractorHeadcounts groups open allocations by contractor and company
func (r *DashboardRepository) ContractorHeadcounts() ([]models.ContractorHeadcount, error) {
	rows := []models.ContractorHeadcount{}
	err := r.db.Select(&rows, `
		SELECT
			a.contractor_name,
			COALESCE(NULLIF(TRIM(u.company), ''), 'N/A') AS company,
			COUNT(DISTINCT a.user_id) AS employee_count
		FROM allocations a
		LEFT JOIN users u ON u.user_id = a.user_id
		WHERE a.status = 'BOOKED'
		GROUP BY a.contractor_name, COALESCE(NULLIF(TRIM(u.company), ''), 'N/A')
		ORDER BY employee_count DESC, a.contractor_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contractor headcounts: %w", err)
	}
	return rows, nil
}

// Summary returns the headline card: the largest contractor by open
// allocations plus overall active and released worker counts
func (r *DashboardRepository) Summary() (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{VendorName: "N/A", CompanyName: "N/A"}

	top := []models.ContractorHeadcount{}
	err := r.db.Select(&top, `
		SELECT
			a.contractor_name,
			COALESCE(NULLIF(TRIM(u.company), ''), 'N/A') AS company,
			COUNT(DISTINCT a.user_id) AS employee_count
		FROM allocations a
		LEFT JOIN users u ON u.user_id = a.user_id
		WHERE a.status = 'BOOKED'
		GROUP BY a.contractor_name, COALESCE(NULLIF(TRIM(u.company), ''), 'N/A')
		ORDER BY employee_count DESC
		LIMIT 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query top contractor: %w", err)
	}
	if len(top) > 0 {
		summary.VendorName = top[0].ContractorName
		summary.CompanyName = top[0].Company
	}

	err = r.db.Get(&summary.ActiveEmployees,
		`SELECT COUNT(DISTINCT user_id) FROM allocations WHERE status = 'BOOKED'`)
	if err != nil {
		return nil, fmt.Errorf("failed to count active workers: %w", err)
	}

	err = r.db.Get(&summary.InactiveEmployees, `
		SELECT COUNT(DISTINCT user_id) FROM allocations
		WHERE status = 'RELEASED'
			AND user_id NOT IN (SELECT user_id FROM allocations WHERE status = 'BOOKED')
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count released workers: %w", err)
	}

	return summary, nil
}
