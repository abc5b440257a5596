package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
	"github.com/campaxis/camp-accommodation-backend/pkg/locationcode"
)

// AllocationRepository handles the booking lifecycle. Bed exclusivity is
// enforced twice: a conditional status flip inside the booking transaction,
// backstopped by the one_booked_allocation_per_bed partial unique index.
type AllocationRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(db *sqlx.DB, logger *logrus.Logger) *AllocationRepository {
	return &AllocationRepository{db: db, logger: logger}
}

// selecter is satisfied by both *sqlx.DB and *sqlx.Tx
type selecter interface {
	Select(dest interface{}, query string, args ...interface{}) error
}

// activeBuildingIndexes maps building id to its 1-based position among active
// buildings ordered by creation. The position feeds the first digit of the
// allocation code.
func activeBuildingIndexes(q selecter) (map[int64]int, error) {
	ids := []int64{}
	err := q.Select(&ids, `SELECT id FROM buildings WHERE is_active = TRUE ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active buildings: %w", err)
	}
	indexes := make(map[int64]int, len(ids))
	for i, id := range ids {
		indexes[id] = i + 1
	}
	return indexes, nil
}

// bedLocation carries the physical coordinates of a bed
type bedLocation struct {
	BedID          int64  `db:"bed_id"`
	BedNumber      int    `db:"bed_number"`
	BedStatus      string `db:"bed_status"`
	RoomNumber     int    `db:"room_number"`
	FloorNumber    int    `db:"floor_number"`
	BuildingID     int64  `db:"building_id"`
	BuildingActive bool   `db:"building_active"`
}

func resolveBedLocation(tx *sqlx.Tx, bedID int64) (*bedLocation, error) {
	var loc bedLocation
	err := tx.Get(&loc, `
		SELECT
			bed.id AS bed_id,
			bed.bed_number,
			bed.status AS bed_status,
			r.room_number,
			f.floor_number,
			b.id AS building_id,
			b.is_active AS building_active
		FROM beds bed
		JOIN rooms r ON bed.room_id = r.id
		JOIN floors f ON r.floor_id = f.id
		JOIN buildings b ON f.building_id = b.id
		WHERE bed.id = $1
	`, bedID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Bed not found")
		}
		return nil, fmt.Errorf("failed to resolve bed location: %w", err)
	}
	return &loc, nil
}

// deriveCodeForBed computes the allocation code for a bed from its location
// and the building's position among active buildings
func deriveCodeForBed(tx *sqlx.Tx, bedID int64) (string, error) {
	loc, err := resolveBedLocation(tx, bedID)
	if err != nil {
		return "", err
	}
	if !loc.BuildingActive {
		return "", apperrors.BadRequest("Building is inactive; cannot derive allocation code")
	}

	indexes, err := activeBuildingIndexes(tx)
	if err != nil {
		return "", err
	}
	seq, ok := indexes[loc.BuildingID]
	if !ok {
		return "", apperrors.BadRequest("Building is inactive; cannot derive allocation code")
	}

	code, err := locationcode.Derive(locationcode.Location{
		BuildingSeq: seq,
		FloorNumber: loc.FloorNumber,
		RoomNumber:  loc.RoomNumber,
		BedNumber:   loc.BedNumber,
	})
	if err != nil {
		return "", apperrors.BadRequest(err.Error())
	}
	return code, nil
}

// Create books a bed for a worker. The insert and the bed status flip happen
// in one transaction; a concurrent booking of the same bed loses on the
// conditional update and gets a Conflict.
func (r *AllocationRepository) Create(req *models.CreateAllocationRequest, startDate, endDate *time.Time) (int64, string, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	code, err := deriveCodeForBed(tx, req.BedID)
	if err != nil {
		return 0, "", err
	}

	contractorName := req.ContractorName
	if contractorName == "" {
		contractorName = "N/A"
	}
	var remarks *string
	if req.Remarks != "" {
		remarks = &req.Remarks
	}

	var id int64
	err = tx.QueryRow(`
		INSERT INTO allocations (user_id, bed_id, contractor_name, remarks, start_date, end_date, status, allocation_code)
		VALUES ($1, $2, $3, $4, $5, $6, 'BOOKED', $7)
		RETURNING id
	`, req.UserID, req.BedID, contractorName, remarks, startDate, endDate, code).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, "", apperrors.Conflict("Bed is no longer available")
		}
		return 0, "", fmt.Errorf("failed to insert allocation: %w", err)
	}

	result, err := tx.Exec(
		`UPDATE beds SET status = 'BOOKED' WHERE id = $1 AND status = 'AVAILABLE'`, req.BedID)
	if err != nil {
		return 0, "", fmt.Errorf("failed to book bed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, "", apperrors.Conflict("Bed is no longer available")
	}

	if err := tx.Commit(); err != nil {
		return 0, "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, code, nil
}

// Update edits allocation details and optionally checks the worker out.
// Checkout moves BOOKED to RELEASED, stamps released_at once, and frees the
// bed; editing a released allocation never re-books the bed. Returns the
// allocation's status after the update.
func (r *AllocationRepository) Update(id int64, req *models.UpdateAllocationRequest, startDate, endDate *time.Time) (models.AllocationStatus, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Allocation
	err = tx.Get(&current, `
		SELECT id, user_id, bed_id, contractor_name, remarks, start_date, end_date, status, allocation_code, allocated_at, released_at
		FROM allocations
		WHERE id = $1
	`, id)
	if err != nil {
		if isNoRows(err) {
			return "", apperrors.NotFound("Allocation not found")
		}
		return "", fmt.Errorf("failed to get allocation: %w", err)
	}

	// worker details live on the users row
	_, err = tx.Exec(`
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			company = COALESCE(NULLIF($3, ''), company)
		WHERE user_id = $1
	`, current.UserID, req.UserName, req.Company)
	if err != nil {
		return "", fmt.Errorf("failed to update user details: %w", err)
	}

	contractorName := current.ContractorName
	if req.ContractorName != "" {
		contractorName = req.ContractorName
	}
	remarks := current.Remarks
	if req.Remarks != "" {
		remarks = &req.Remarks
	}
	if startDate == nil {
		startDate = current.StartDate
	}
	if endDate == nil {
		endDate = current.EndDate
	}

	// A non-checkout edit keeps the stored status. RELEASED never goes back
	// to BOOKED here: the freed bed may have been booked again, so getting
	// the worker a bed again takes a new allocation.
	status := current.Status
	releasedAt := current.ReleasedAt
	if req.Checkout && current.Status == models.AllocationStatusBooked {
		status = models.AllocationStatusReleased
		if releasedAt == nil {
			now := time.Now()
			releasedAt = &now
		}
	}

	_, err = tx.Exec(`
		UPDATE allocations SET
			contractor_name = $2,
			remarks = $3,
			start_date = $4,
			end_date = $5,
			status = $6,
			released_at = $7
		WHERE id = $1
	`, id, contractorName, remarks, startDate, endDate, status, releasedAt)
	if err != nil {
		return "", fmt.Errorf("failed to update allocation: %w", err)
	}

	if req.Checkout && current.Status == models.AllocationStatusBooked {
		_, err = tx.Exec(
			`UPDATE beds SET status = 'AVAILABLE' WHERE id = $1`, current.BedID)
		if err != nil {
			return "", fmt.Errorf("failed to free bed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return status, nil
}

// Checkout releases a booked allocation and frees its bed. Releasing an
// already-released allocation is a Conflict.
func (r *AllocationRepository) Checkout(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Allocation
	err = tx.Get(&current, `
		SELECT id, user_id, bed_id, status, released_at,
			contractor_name, remarks, start_date, end_date, allocation_code, allocated_at
		FROM allocations
		WHERE id = $1
	`, id)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NotFound("Allocation not found")
		}
		return fmt.Errorf("failed to get allocation: %w", err)
	}
	if current.Status != models.AllocationStatusBooked {
		return apperrors.Conflict("Allocation is already released")
	}

	_, err = tx.Exec(`
		UPDATE allocations SET status = 'RELEASED', released_at = NOW()
		WHERE id = $1 AND status = 'BOOKED'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to release allocation: %w", err)
	}

	_, err = tx.Exec(`UPDATE beds SET status = 'AVAILABLE' WHERE id = $1`, current.BedID)
	if err != nil {
		return fmt.Errorf("failed to free bed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const allocationViewSelect = `
	SELECT
		a.id,
		a.user_id,
		COALESCE(u.name, a.user_id) AS user_name,
		COALESCE(u.company, 'N/A') AS company,
		a.contractor_name,
		a.remarks,
		a.start_date,
		a.end_date,
		a.status,
		a.allocated_at,
		a.released_at,
		a.bed_id,
		COALESCE(a.allocation_code, '') AS allocation_code,
		bed.bed_number,
		r.room_number,
		f.floor_number,
		f.id AS floor_id,
		b.id AS building_id,
		b.name AS building_name
	FROM allocations a
	LEFT JOIN users u ON a.user_id = u.user_id
	JOIN beds bed ON a.bed_id = bed.id
	JOIN rooms r ON bed.room_id = r.id
	JOIN floors f ON r.floor_id = f.id
	JOIN buildings b ON f.building_id = b.id
`

// GetByID returns one allocation with its location. Rows created before
// allocation codes existed get their code derived and stored on first read.
func (r *AllocationRepository) GetByID(id int64) (*models.AllocationView, error) {
	var view models.AllocationView
	err := r.db.Get(&view, allocationViewSelect+` WHERE a.id = $1`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("Allocation not found")
		}
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}

	indexes, err := activeBuildingIndexes(r.db)
	if err != nil {
		return nil, err
	}
	view.BuildingSeq = indexes[view.BuildingID]

	if view.AllocationCode == "" {
		if view.BuildingSeq == 0 {
			// the building is inactive, so no position exists to derive the
			// first digit from; the code stays empty until reactivation
			r.logger.WithFields(logrus.Fields{
				"allocation_id": view.ID,
				"building_id":   view.BuildingID,
			}).Warn("Allocation code backfill skipped: building is inactive")
			return &view, nil
		}

		code, derr := locationcode.Derive(locationcode.Location{
			BuildingSeq: view.BuildingSeq,
			FloorNumber: view.FloorNumber,
			RoomNumber:  view.RoomNumber,
			BedNumber:   view.BedNumber,
		})
		if derr == nil {
			// idempotent backfill; a concurrent reader writing the same
			// code first is harmless
			_, uerr := r.db.Exec(
				`UPDATE allocations SET allocation_code = $1 WHERE id = $2 AND allocation_code IS NULL`,
				code, id)
			if uerr != nil {
				return nil, fmt.Errorf("failed to backfill allocation code: %w", uerr)
			}
			view.AllocationCode = code
		}
	}
	return &view, nil
}

// List returns all allocations with locations, newest first
func (r *AllocationRepository) List() ([]models.AllocationView, error) {
	views := []models.AllocationView{}
	err := r.db.Select(&views, allocationViewSelect+` ORDER BY a.allocated_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	indexes, err := activeBuildingIndexes(r.db)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].BuildingSeq = indexes[views[i].BuildingID]
	}
	return views, nil
}

// ListBooked returns open allocations only, newest first
func (r *AllocationRepository) ListBooked() ([]models.AllocationView, error) {
	views := []models.AllocationView{}
	err := r.db.Select(&views, allocationViewSelect+` WHERE a.status = 'BOOKED' ORDER BY a.allocated_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked allocations: %w", err)
	}

	indexes, err := activeBuildingIndexes(r.db)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].BuildingSeq = indexes[views[i].BuildingID]
	}
	return views, nil
}
