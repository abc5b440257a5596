package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// RoomRepository handles database operations for the rooms table. Room
// numbers are auto-assigned: the lowest unused integer in [1,99] per floor.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListByFloor returns rooms of a floor with computed bed occupancy
func (r *RoomRepository) ListByFloor(floorID int64) ([]models.RoomWithOccupancy, error) {
	rooms := []models.RoomWithOccupancy{}
	err := r.db.Select(&rooms, `
		SELECT
			r.id,
			r.floor_id,
			r.room_number,
			r.created_at,
			COUNT(b.id) AS total_beds,
			COALESCE(SUM(CASE WHEN b.status = 'AVAILABLE' THEN 1 ELSE 0 END), 0) AS vacant_beds,
			COUNT(b.id) - COALESCE(SUM(CASE WHEN b.status = 'AVAILABLE' THEN 1 ELSE 0 END), 0) AS occupied_beds
		FROM rooms r
		LEFT JOIN beds b ON b.room_id = r.id
		WHERE r.floor_id = $1
		GROUP BY r.id
		ORDER BY r.room_number ASC
	`, floorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	for i := range rooms {
		rooms[i].DisplayRoomNumber = fmt.Sprintf("%02d", rooms[i].RoomNumber)
	}
	return rooms, nil
}

// ListWithLocation returns all rooms joined with floor and building, with
// optional building-name and floor-number filters
func (r *RoomRepository) ListWithLocation(buildingName string, floorNumber *int) ([]models.RoomWithLocation, error) {
	query := `
		SELECT
			r.id,
			r.room_number,
			b.name AS building,
			f.floor_number AS floor,
			f.id AS floor_id,
			b.id AS building_id
		FROM rooms r
		JOIN floors f ON r.floor_id = f.id
		JOIN buildings b ON f.building_id = b.id
	`
	args := []interface{}{}
	where := ""
	if buildingName != "" {
		args = append(args, buildingName)
		where = fmt.Sprintf(" WHERE b.name = $%d", len(args))
	}
	if floorNumber != nil {
		args = append(args, *floorNumber)
		if where == "" {
			where = fmt.Sprintf(" WHERE f.floor_number = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND f.floor_number = $%d", len(args))
		}
	}
	query += where + ` ORDER BY b.name, f.floor_number, r.room_number`

	rooms := []models.RoomWithLocation{}
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list rooms with location: %w", err)
	}
	return rooms, nil
}

// nextRoomNumber picks the lowest unused room number on a floor
func (r *RoomRepository) nextRoomNumber(floorID int64) (int, error) {
	numbers := []int{}
	err := r.db.Select(&numbers,
		`SELECT room_number FROM rooms WHERE floor_id = $1`, floorID)
	if err != nil {
		return 0, fmt.Errorf("failed to list room numbers: %w", err)
	}

	used := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		used[n] = true
	}
	for candidate := 1; candidate <= models.MaxRoomNumber; candidate++ {
		if !used[candidate] {
			return candidate, nil
		}
	}
	return 0, apperrors.BadRequest(fmt.Sprintf("No room numbers available (max %d)", models.MaxRoomNumber))
}

// Create inserts a room with the lowest free number on the floor
func (r *RoomRepository) Create(floorID int64) (*models.Room, error) {
	number, err := r.nextRoomNumber(floorID)
	if err != nil {
		return nil, err
	}

	room := &models.Room{FloorID: floorID, RoomNumber: number}
	err = r.db.QueryRow(
		`INSERT INTO rooms (floor_id, room_number) VALUES ($1, $2) RETURNING id, created_at`,
		floorID, number,
	).Scan(&room.ID, &room.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// Another request claimed this number between pick and insert
			return nil, apperrors.Conflict(fmt.Sprintf("room number %d was just taken, retry", number))
		}
		return nil, fmt.Errorf("failed to insert room: %w", err)
	}
	return room, nil
}

// AddRooms creates count rooms on a floor, assigning the lowest free numbers.
// All inserts run in one transaction so a failure leaves no partial batch.
func (r *RoomRepository) AddRooms(floorID int64, count int) ([]int64, []int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	numbers := []int{}
	err = tx.Select(&numbers,
		`SELECT room_number FROM rooms WHERE floor_id = $1`, floorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list room numbers: %w", err)
	}

	used := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		used[n] = true
	}

	toInsert := make([]int, 0, count)
	for candidate := 1; candidate <= models.MaxRoomNumber && len(toInsert) < count; candidate++ {
		if !used[candidate] {
			toInsert = append(toInsert, candidate)
		}
	}
	if len(toInsert) < count {
		return nil, nil, apperrors.BadRequest(
			fmt.Sprintf("Not enough room numbers available on this floor (max %d)", models.MaxRoomNumber))
	}

	ids := make([]int64, 0, count)
	for _, number := range toInsert {
		var id int64
		err = tx.QueryRow(
			`INSERT INTO rooms (floor_id, room_number) VALUES ($1, $2) RETURNING id`,
			floorID, number,
		).Scan(&id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert room %d: %w", number, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, toInsert, nil
}

// CountAllocations counts allocation rows under a room; used as the delete guard
func (r *RoomRepository) CountAllocations(roomID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*)
		FROM allocations a
		JOIN beds bed ON a.bed_id = bed.id
		WHERE bed.room_id = $1
	`, roomID)
	if err != nil {
		return 0, fmt.Errorf("failed to count allocations for room: %w", err)
	}
	return count, nil
}

// Delete removes a room and its beds; guarded against linked allocations
// within the same transaction
func (r *RoomRepository) Delete(id int64) error {
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
		WHERE bed.room_id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to count allocations for room: %w", err)
	}
	if count > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot delete room. %d allocation record(s) are linked to this room. Checkout/remove allocations first.", count))
	}

	if _, err = tx.Exec(`DELETE FROM beds WHERE room_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete beds: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperrors.NotFound("Room not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
