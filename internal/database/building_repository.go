package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// isUniqueViolation reports whether err is a Postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// BuildingRepository handles database operations for the buildings table.
// Deletes cascade over descendants and therefore run in a transaction.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new BuildingRepository
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// List returns buildings ordered by creation id. This ordering fixes each
// active building's sequential index used by the allocation code.
func (r *BuildingRepository) List(activeOnly bool) ([]models.Building, error) {
	query := `
		SELECT id, name, address, is_active, created_at
		FROM buildings
		ORDER BY id ASC
	`
	if activeOnly {
		query = `
			SELECT id, name, address, is_active, created_at
			FROM buildings
			WHERE is_active
			ORDER BY id ASC
		`
	}

	buildings := []models.Building{}
	if err := r.db.Select(&buildings, query); err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

// ListSummaries returns the admin listing with per-building floor counts
func (r *BuildingRepository) ListSummaries() ([]models.BuildingSummary, error) {
	query := `
		SELECT
			b.id,
			b.name AS building_name,
			b.address AS building_code,
			COUNT(DISTINCT f.id) AS floors
		FROM buildings b
		LEFT JOIN floors f ON b.id = f.building_id
		GROUP BY b.id, b.name, b.address
		ORDER BY b.id ASC
	`

	summaries := []models.BuildingSummary{}
	if err := r.db.Select(&summaries, query); err != nil {
		return nil, fmt.Errorf("failed to list building summaries: %w", err)
	}
	return summaries, nil
}

// Create inserts a building and its initial floors in one transaction
func (r *BuildingRepository) Create(name, address string, floorCount int) (*models.Building, error) {
	if floorCount < 1 {
		floorCount = 1
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var addr *string
	if address != "" {
		addr = &address
	}

	building := &models.Building{Name: name, Address: addr, IsActive: true}
	err = tx.QueryRowx(
		`INSERT INTO buildings (name, address) VALUES ($1, $2) RETURNING id, created_at`,
		name, addr,
	).Scan(&building.ID, &building.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("building %q already exists", name))
		}
		return nil, fmt.Errorf("failed to insert building: %w", err)
	}

	for i := 1; i <= floorCount; i++ {
		_, err = tx.Exec(
			`INSERT INTO floors (building_id, floor_number, name) VALUES ($1, $2, $3)`,
			building.ID, i, fmt.Sprintf("Floor %d", i),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert floor %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return building, nil
}

// SetActive toggles the soft-active flag
func (r *BuildingRepository) SetActive(id int64, active bool) error {
	result, err := r.db.Exec(`UPDATE buildings SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update building: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("Building not found")
	}
	return nil
}

// CountAllocations counts allocation rows that transitively reference a bed
// under this building; used as the delete guard
func (r *BuildingRepository) CountAllocations(buildingID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*)
		FROM allocations a
		JOIN beds bed ON a.bed_id = bed.id
		JOIN rooms r ON bed.room_id = r.id
		JOIN floors f ON r.floor_id = f.id
		WHERE f.building_id = $1
	`, buildingID)
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations for building: %w", err)
	}
	return count, nil
}

// Delete removes a building and all of its floors, rooms and beds. The
// allocation guard is re-checked inside the same transaction as the deletes
// so the guard and the destructive step observe one snapshot.
func (r *BuildingRepository) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.Get(&count, `
		SELECT COUNT(*)
		FROM allocations a
		JOIN beds bed ON a.bed_id = bed.id
		JOIN rooms r ON bed.room_id = r.id
		JOIN floors f ON r.floor_id = f.id
		WHERE f.building_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to count allocations for building: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot delete building. %d allocation record(s) are linked to this building. Checkout/remove allocations first.", count))
	}

	_, err = tx.Exec(`
		DELETE FROM beds WHERE room_id IN (
			SELECT r.id FROM rooms r
			JOIN floors f ON r.floor_id = f.id
			WHERE f.building_id = $1
		)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete beds: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM rooms WHERE floor_id IN (
			SELECT id FROM floors WHERE building_id = $1
		)
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rooms: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM floors WHERE building_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete floors: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM buildings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete building: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("Building not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
