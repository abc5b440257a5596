package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

func TestCreateBed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBedRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(bed_number\), 0\) FROM beds`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO beds`).
		WithArgs(int64(10), 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), time.Now()))

	bed, err := repo.Create(10)
	require.NoError(t, err)
	assert.Equal(t, 3, bed.BedNumber)
	assert.Equal(t, "03", bed.DisplayBedNumber)
	assert.Equal(t, models.BedStatusAvailable, bed.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBeds(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBedRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(bed_number\), 0\) FROM beds`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO beds`).
			WithArgs(int64(10), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectQuery(`INSERT INTO beds`).
			WithArgs(int64(10), 2).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(43)))
		mock.ExpectCommit()

		start, ids, err := repo.AddBeds(10, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, start)
		assert.Equal(t, []int64{42, 43}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Mid Batch Failure Rolls Back", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewBedRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(bed_number\), 0\) FROM beds`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))
		mock.ExpectQuery(`INSERT INTO beds`).
			WithArgs(int64(10), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectQuery(`INSERT INTO beds`).
			WithArgs(int64(10), 2).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, _, err := repo.AddBeds(10, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert bed 2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
