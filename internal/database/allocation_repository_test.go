package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

func bedLocationRows(bedNumber, roomNumber, floorNumber int, buildingID int64, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"bed_id", "bed_number", "bed_status", "room_number", "floor_number", "building_id", "building_active",
	}).AddRow(int64(42), bedNumber, "AVAILABLE", roomNumber, floorNumber, buildingID, active)
}

func activeBuildingRows(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	return rows
}

func TestCreateAllocation(t *testing.T) {
	req := &models.CreateAllocationRequest{
		UserID:         "EMP-1001",
		ContractorName: "Acme Civil",
		BedID:          42,
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM beds bed`).
			WithArgs(int64(42)).
			WillReturnRows(bedLocationRows(3, 5, 2, 7, true))
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(activeBuildingRows(7, 9))
		mock.ExpectQuery(`INSERT INTO allocations`).
			WithArgs("EMP-1001", int64(42), "Acme Civil", nil, nil, nil, "120503").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(15)))
		mock.ExpectExec(`UPDATE beds SET status = 'BOOKED'`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		id, code, err := repo.Create(req, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(15), id)
		assert.Equal(t, "120503", code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bed Already Booked", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM beds bed`).
			WithArgs(int64(42)).
			WillReturnRows(bedLocationRows(3, 5, 2, 7, true))
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(activeBuildingRows(7))
		mock.ExpectQuery(`INSERT INTO allocations`).
			WithArgs("EMP-1001", int64(42), "Acme Civil", nil, nil, nil, "120503").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(16)))
		// bed was booked concurrently, the conditional update matches nothing
		mock.ExpectExec(`UPDATE beds SET status = 'BOOKED'`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, _, err := repo.Create(req, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bed Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM beds bed`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"bed_id"}))
		mock.ExpectRollback()

		_, _, err := repo.Create(req, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Inactive Building", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM beds bed`).
			WithArgs(int64(42)).
			WillReturnRows(bedLocationRows(3, 5, 2, 7, false))
		mock.ExpectRollback()

		_, _, err := repo.Create(req, nil, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func allocationRow(status models.AllocationStatus, releasedAt *time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "bed_id", "contractor_name", "remarks",
		"start_date", "end_date", "status", "allocation_code", "allocated_at", "released_at",
	}).AddRow(
		int64(15), "EMP-1001", int64(42), "Acme Civil", nil,
		nil, nil, string(status), "120503", now, releasedAt,
	)
}

func TestCheckoutAllocation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(allocationRow(models.AllocationStatusBooked, nil))
		mock.ExpectExec(`UPDATE allocations SET status = 'RELEASED'`).
			WithArgs(int64(15)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Checkout(15)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Released", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		released := time.Now().Add(-time.Hour)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(allocationRow(models.AllocationStatusReleased, &released))
		mock.ExpectRollback()

		err := repo.Checkout(15)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Checkout(15)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func allocationViewRow(code string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "user_name", "company", "contractor_name", "remarks",
		"start_date", "end_date", "status", "allocated_at", "released_at",
		"bed_id", "allocation_code", "bed_number", "room_number", "floor_number",
		"floor_id", "building_id", "building_name",
	}).AddRow(
		int64(15), "EMP-1001", "J. Perera", "Acme Civil", "Acme Civil", nil,
		nil, nil, "BOOKED", now, nil,
		int64(42), code, 3, 5, 2,
		int64(4), int64(7), "Block A",
	)
}

func TestGetAllocationByID(t *testing.T) {
	t.Run("Backfills Missing Code", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectQuery(`SELECT (.+) FROM allocations a`).
			WithArgs(int64(15)).
			WillReturnRows(allocationViewRow(""))
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(activeBuildingRows(7, 9))
		mock.ExpectExec(`UPDATE allocations SET allocation_code`).
			WithArgs("120503", int64(15)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		view, err := repo.GetByID(15)
		require.NoError(t, err)
		assert.Equal(t, "120503", view.AllocationCode)
		assert.Equal(t, 1, view.BuildingSeq)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Keeps Stored Code", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectQuery(`SELECT (.+) FROM allocations a`).
			WithArgs(int64(15)).
			WillReturnRows(allocationViewRow("120503"))
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(activeBuildingRows(7))

		view, err := repo.GetByID(15)
		require.NoError(t, err)
		assert.Equal(t, "120503", view.AllocationCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips Backfill For Inactive Building", func(t *testing.T) {
		db, mock := newMockDB(t)
		logger, hook := logrustest.NewNullLogger()
		repo := NewAllocationRepository(db, logger)

		mock.ExpectQuery(`SELECT (.+) FROM allocations a`).
			WithArgs(int64(15)).
			WillReturnRows(allocationViewRow(""))
		// building 7 is no longer active, so it has no sequential position
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(activeBuildingRows(9))

		view, err := repo.GetByID(15)
		require.NoError(t, err)
		assert.Empty(t, view.AllocationCode)
		assert.Zero(t, view.BuildingSeq)

		require.Len(t, hook.Entries, 1)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, int64(7), hook.LastEntry().Data["building_id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewAllocationRepository(db, newTestLogger())

		mock.ExpectQuery(`SELECT (.+) FROM allocations a`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(99)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateAllocationCheckout(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAllocationRepository(db, newTestLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM allocations`).
		WithArgs(int64(15)).
		WillReturnRows(allocationRow(models.AllocationStatusBooked, nil))
	mock.ExpectExec(`UPDATE users SET`).
		WithArgs("EMP-1001", "New Name", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE allocations SET`).
		WithArgs(int64(15), "Acme Civil", nil, nil, nil, models.AllocationStatusReleased, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	status, err := repo.Update(15, &models.UpdateAllocationRequest{UserName: "New Name", Checkout: true}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.AllocationStatusReleased, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
