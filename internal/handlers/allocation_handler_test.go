package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
)

func setupAllocationRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	pgDB := &database.PostgresDB{DB: db}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	handler := NewAllocationHandler(
		database.NewAllocationRepository(db, logger),
		database.NewUserRepository(pgDB),
		database.NewBlacklistRepository(pgDB),
		logger,
	)

	router := gin.New()
	router.POST("/api/allocations", handler.Create)
	router.PUT("/api/allocations/:id", handler.Update)
	router.POST("/api/allocations/:id/checkout", handler.Checkout)
	return router, mock
}

func sendJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	return sendJSON(router, http.MethodPost, path, body)
}

func TestCreateAllocationEndpoint(t *testing.T) {
	t.Run("Rejects Blacklisted Worker", func(t *testing.T) {
		router, mock := setupAllocationRouter(t)

		mock.ExpectQuery(`SELECT (.+) FROM blacklist`).
			WithArgs("EMP-1001").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "user_name", "company", "reason", "blacklisted_by", "blacklisted_at", "is_active",
			}).AddRow(int64(3), "EMP-1001", "J. Perera", nil, "Property damage", "admin", time.Now(), true))

		w := postJSON(router, "/api/allocations", gin.H{
			"userId": "EMP-1001",
			"bedId":  42,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Property damage", body["reason"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Invalid Date Range", func(t *testing.T) {
		router, _ := setupAllocationRouter(t)

		w := postJSON(router, "/api/allocations", gin.H{
			"userId":    "EMP-1001",
			"bedId":     42,
			"startDate": "2026-09-10",
			"endDate":   "2026-09-01",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "startDate must be before endDate")
	})

	t.Run("Rejects Malformed Date", func(t *testing.T) {
		router, _ := setupAllocationRouter(t)

		w := postJSON(router, "/api/allocations", gin.H{
			"userId":    "EMP-1001",
			"bedId":     42,
			"startDate": "10/09/2026",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Required Fields", func(t *testing.T) {
		router, _ := setupAllocationRouter(t)

		w := postJSON(router, "/api/allocations", gin.H{"userId": "EMP-1001"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Books Bed And Returns Code", func(t *testing.T) {
		router, mock := setupAllocationRouter(t)

		// blacklist check comes back clean
		mock.ExpectQuery(`SELECT (.+) FROM blacklist`).
			WithArgs("EMP-1001").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec(`INSERT INTO users`).
			WithArgs("EMP-1001", "J. Perera", "Acme Civil").
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM beds bed`).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{
				"bed_id", "bed_number", "bed_status", "room_number", "floor_number", "building_id", "building_active",
			}).AddRow(int64(42), 3, "AVAILABLE", 5, 2, int64(7), true))
		mock.ExpectQuery(`SELECT id FROM buildings WHERE is_active`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectQuery(`INSERT INTO allocations`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(15)))
		mock.ExpectExec(`UPDATE beds SET status = 'BOOKED'`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := postJSON(router, "/api/allocations", gin.H{
			"userId":   "EMP-1001",
			"userName": "J. Perera",
			"company":  "Acme Civil",
			"bedId":    42,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "120503", body["allocation_code"])
		assert.Equal(t, float64(15), body["allocation_id"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateAllocationEndpoint(t *testing.T) {
	allocationRow := func(status string, releasedAt interface{}) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "user_id", "bed_id", "contractor_name", "remarks",
			"start_date", "end_date", "status", "allocation_code", "allocated_at", "released_at",
		}).AddRow(int64(15), "EMP-1001", int64(42), "Acme Civil", nil,
			nil, nil, status, "120503", time.Now(), releasedAt)
	}

	t.Run("Checkout Reports Released Status", func(t *testing.T) {
		router, mock := setupAllocationRouter(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(allocationRow("BOOKED", nil))
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs("EMP-1001", "", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE allocations SET`).
			WithArgs(int64(15), "Acme Civil", nil, nil, nil, "RELEASED", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE beds SET status = 'AVAILABLE'`).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := sendJSON(router, http.MethodPut, "/api/allocations/15", gin.H{"checkout": true})

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "RELEASED", body["status"])
		assert.Equal(t, "Allocation updated successfully", body["message"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Edit After Release Keeps Released Status", func(t *testing.T) {
		router, mock := setupAllocationRouter(t)

		released := time.Now().Add(-time.Hour)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(allocationRow("RELEASED", released))
		mock.ExpectExec(`UPDATE users SET`).
			WithArgs("EMP-1001", "", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE allocations SET`).
			WithArgs(int64(15), "Acme Civil", sqlmock.AnyArg(), nil, nil, "RELEASED", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := sendJSON(router, http.MethodPut, "/api/allocations/15", gin.H{"remarks": "Left site early"})

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "RELEASED", body["status"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	t.Run("Invalid ID", func(t *testing.T) {
		router, _ := setupAllocationRouter(t)

		w := postJSON(router, "/api/allocations/abc/checkout", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Double Release Conflicts", func(t *testing.T) {
		router, mock := setupAllocationRouter(t)

		released := time.Now().Add(-time.Hour)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM allocations`).
			WithArgs(int64(15)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "bed_id", "contractor_name", "remarks",
				"start_date", "end_date", "status", "allocation_code", "allocated_at", "released_at",
			}).AddRow(int64(15), "EMP-1001", int64(42), "Acme Civil", nil,
				nil, nil, "RELEASED", "120503", time.Now(), released))
		mock.ExpectRollback()

		w := postJSON(router, "/api/allocations/15/checkout", gin.H{})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already released")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
