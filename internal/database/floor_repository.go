package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// FloorRepository handles database operations for the floors table
type FloorRepository struct {
	db *sqlx.DB
}

// NewFloorRepository creates a new FloorRepository
func NewFloorRepository(db *sqlx.DB) *FloorRepository {
	return &FloorRepository{db: db}
}

// ListByBuilding returns all floors of a building ordered by floor number
func (r *FloorRepository) ListByBuilding(buildingID int64) ([]models.Floor, error) {
	floors := []models.Floor{}
	err := r.db.Select(&floors, `
		SELECT id, building_id, floor_number, name, created_at
		FROM floors
		WHERE building_id = $1
		ORDER BY floor_number ASC
	`, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors: %w", err)
	}
	return floors, nil
}

// ListWithBuildings returns all floors joined with their building
func (r *FloorRepository) ListWithBuildings() ([]models.FloorWithBuilding, error) {
	floors := []models.FloorWithBuilding{}
	err := r.db.Select(&floors, `
		SELECT
			f.id,
			f.floor_number,
			f.name AS floor_name,
			b.name AS building,
			b.id AS building_id
		FROM floors f
		JOIN buildings b ON f.building_id = b.id
		ORDER BY b.name, f.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list floors with buildings: %w", err)
	}
	return floors, nil
}

// Create inserts a single floor
func (r *FloorRepository) Create(buildingID int64, floorNumber int, name string) (*models.Floor, error) {
	floor := &models.Floor{BuildingID: buildingID, FloorNumber: floorNumber, Name: name}
	err := r.db.QueryRow(
		`INSERT INTO floors (building_id, floor_number, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		buildingID, floorNumber, name,
	).Scan(&floor.ID, &floor.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("floor %d already exists in this building", floorNumber))
		}
		return nil, fmt.Errorf("failed to insert floor: %w", err)
	}
	return floor, nil
}

// AddFloors appends count floors to a building, numbered above the current
// maximum. All inserts run in one transaction so a failure leaves no partial
// batch. Returns the first new floor number and the inserted ids.
func (r *FloorRepository) AddFloors(buildingName string, count int) (int, []int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var buildingID int64
	err = tx.Get(&buildingID, `SELECT id FROM buildings WHERE name = $1`, buildingName)
	if err != nil {
		if isNoRows(err) {
			return 0, nil, apperrors.BadRequest("Building not found")
		}
		return 0, nil, fmt.Errorf("failed to look up building: %w", err)
	}

	var maxFloor int
	err = tx.Get(&maxFloor,
		`SELECT COALESCE(MAX(floor_number), 0) FROM floors WHERE building_id = $1`, buildingID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get max floor number: %w", err)
	}

	start := maxFloor + 1
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		floorNum := start + i
		var id int64
		err = tx.QueryRow(
			`INSERT INTO floors (building_id, floor_number, name) VALUES ($1, $2, $3) RETURNING id`,
			buildingID, floorNum, fmt.Sprintf("Floor %d", floorNum),
		).Scan(&id)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert floor %d: %w", floorNum, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return start, ids, nil
}

// CountAllocations counts allocation rows under a floor; used as the delete guard
func (r *FloorRepository) CountAllocations(floorID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*)
		FROM allocations a
		JOIN beds bed ON a.bed_id = bed.id
		JOIN rooms r ON bed.room_id = r.id
		WHERE r.floor_id = $1
	`, floorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations for floor: %w", err)
	}
	return count, nil
}

// Delete removes a floor with its rooms and beds; guarded against linked
// allocations within the same transaction
func (r *FloorRepository) Delete(id int64) error {
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
		WHERE r.floor_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to count allocations for floor: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot delete floor. %d allocation record(s) are linked to this floor. Checkout/remove allocations first.", count))
	}

	_, err = tx.Exec(
		`DELETE FROM beds WHERE room_id IN (SELECT id FROM rooms WHERE floor_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("failed to delete beds: %w", err)
	}

	if _, err = tx.Exec(`DELETE FROM rooms WHERE floor_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete rooms: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM floors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete floor: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("Floor not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
