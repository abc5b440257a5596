package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
)

func TestCreateBuilding(t *testing.T) {
	t.Run("Creates Building With Floors", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBuildingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO buildings`).
			WithArgs("Block A", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
		for i := 1; i <= 3; i++ {
			mock.ExpectExec(`INSERT INTO floors`).
				WithArgs(int64(1), i, sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(int64(i), 1))
		}
		mock.ExpectCommit()

		building, err := repo.Create("Block A", "", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), building.ID)
		assert.Equal(t, "Block A", building.Name)
		assert.True(t, building.IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBuildingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO buildings`).
			WithArgs("Block A", nil).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		_, err := repo.Create("Block A", "", 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteBuilding(t *testing.T) {
	t.Run("Blocked By Allocations", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBuildingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
		mock.ExpectRollback()

		err := repo.Delete(1)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "4 allocation record(s)")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Cascades Over Descendants", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBuildingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM beds`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 6))
		mock.ExpectExec(`DELETE FROM rooms`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`DELETE FROM floors`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM buildings`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(1)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBuildingRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COUNT`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM beds`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM rooms`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM floors`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM buildings`).
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(9)
		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSetBuildingActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBuildingRepository(db)

	mock.ExpectExec(`UPDATE buildings SET is_active`).
		WithArgs(false, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetActive(1, false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
