package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// BedRepository handles database operations for the beds table. Bed numbers
// are auto-assigned as the next integer above the room's current maximum.
type BedRepository struct {
	db *sqlx.DB
}

// NewBedRepository creates a new BedRepository
func NewBedRepository(db *sqlx.DB) *BedRepository {
	return &BedRepository{db: db}
}

// ListByRoom returns all beds of a room ordered by bed number
func (r *BedRepository) ListByRoom(roomID int64) ([]models.Bed, error) {
	beds := []models.Bed{}
	err := r.db.Select(&beds, `
		SELECT id, room_id, bed_number, status, created_at
		FROM beds
		WHERE room_id = $1
		ORDER BY bed_number ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}

	for i := range beds {
		beds[i].DisplayBedNumber = fmt.Sprintf("%02d", beds[i].BedNumber)
	}
	return beds, nil
}

// ListWithLocation returns all beds joined with room, floor and building
func (r *BedRepository) ListWithLocation() ([]models.BedWithLocation, error) {
	beds := []models.BedWithLocation{}
	err := r.db.Select(&beds, `
		SELECT
			bed.id,
			bed.bed_number,
			bed.status,
			r.room_number AS room,
			b.name AS building,
			f.floor_number AS floor
		FROM beds bed
		JOIN rooms r ON bed.room_id = r.id
		JOIN floors f ON r.floor_id = f.id
		JOIN buildings b ON f.building_id = b.id
		ORDER BY b.name, f.floor_number, r.room_number, bed.bed_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list beds with location: %w", err)
	}
	return beds, nil
}

// Create inserts a bed numbered one above the room's current maximum
func (r *BedRepository) Create(roomID int64) (*models.Bed, error) {
	var maxBed int
	err := r.db.Get(&maxBed,
		`SELECT COALESCE(MAX(bed_number), 0) FROM beds WHERE room_id = $1`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max bed number: %w", err)
	}

	bed := &models.Bed{RoomID: roomID, BedNumber: maxBed + 1, Status: models.BedStatusAvailable}
	err = r.db.QueryRow(
		`INSERT INTO beds (room_id, bed_number, status) VALUES ($1, $2, 'AVAILABLE') RETURNING id, created_at`,
		roomID, bed.BedNumber,
	).Scan(&bed.ID, &bed.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(fmt.Sprintf("bed number %d was just taken, retry", bed.BedNumber))
		}
		return nil, fmt.Errorf("failed to insert bed: %w", err)
	}
	bed.DisplayBedNumber = fmt.Sprintf("%02d", bed.BedNumber)
	return bed, nil
}

// AddBeds creates count beds in a room, numbered above the current maximum.
// All inserts run in one transaction so a failure leaves no partial batch.
// Returns the first new bed number and the inserted ids.
func (r *BedRepository) AddBeds(roomID int64, count int) (int, []int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxBed int
	err = tx.Get(&maxBed,
		`SELECT COALESCE(MAX(bed_number), 0) FROM beds WHERE room_id = $1`, roomID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to get max bed number: %w", err)
	}

	start := maxBed + 1
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		err = tx.QueryRow(
			`INSERT INTO beds (room_id, bed_number, status) VALUES ($1, $2, 'AVAILABLE') RETURNING id`,
			roomID, start+i,
		).Scan(&id)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to insert bed %d: %w", start+i, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return 0, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return start, ids, nil
}

// CountAllocations counts allocation rows referencing a bed; used as the delete guard
func (r *BedRepository) CountAllocations(bedID int64) (int, error) {
	var count int
	err := r.db.Get(&count,
		`SELECT COUNT(*) FROM allocations WHERE bed_id = $1`, bedID)
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations for bed: %w", err)
	}
	return count, nil
}

// Delete removes a bed; guarded against linked allocations within the same
// transaction
func (r *BedRepository) Delete(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.Get(&count, `SELECT COUNT(*) FROM allocations WHERE bed_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to count allocations for bed: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot delete bed. %d allocation record(s) are linked to this bed. Checkout/remove allocations first.", count))
	}

	result, err := tx.Exec(`DELETE FROM beds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("Bed not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
