package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// schemaStatements are executed in parent->child order on startup. All
// statements are idempotent. IDs are BIGSERIAL and are never reset or
// compacted after deletes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS buildings (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL UNIQUE,
		address    VARCHAR(255),
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS floors (
		id           BIGSERIAL PRIMARY KEY,
		building_id  BIGINT NOT NULL REFERENCES buildings(id),
		floor_number INTEGER NOT NULL,
		name         VARCHAR(100) NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (building_id, floor_number)
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id          BIGSERIAL PRIMARY KEY,
		floor_id    BIGINT NOT NULL REFERENCES floors(id),
		room_number INTEGER NOT NULL CHECK (room_number BETWEEN 1 AND 99),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (floor_id, room_number)
	)`,
	`CREATE TABLE IF NOT EXISTS beds (
		id         BIGSERIAL PRIMARY KEY,
		room_id    BIGINT NOT NULL REFERENCES rooms(id),
		bed_number INTEGER NOT NULL,
		status     VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (room_id, bed_number)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id       VARCHAR(50) PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		company       VARCHAR(255) NOT NULL DEFAULT '',
		role          VARCHAR(50) NOT NULL DEFAULT 'CONTRACTOR',
		password_hash VARCHAR(255) NOT NULL DEFAULT 'N/A',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS allocations (
		id              BIGSERIAL PRIMARY KEY,
		user_id         VARCHAR(50) NOT NULL REFERENCES users(user_id),
		bed_id          BIGINT NOT NULL REFERENCES beds(id),
		contractor_name VARCHAR(255) NOT NULL DEFAULT 'N/A',
		remarks         TEXT,
		start_date      DATE,
		end_date        DATE,
		status          VARCHAR(20) NOT NULL DEFAULT 'BOOKED',
		allocation_code CHAR(6),
		allocated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		released_at     TIMESTAMPTZ
	)`,
	// At most one open allocation may reference a bed. Together with the
	// conditional bed-status update inside the booking transaction this
	// closes the double-booking race.
	`CREATE UNIQUE INDEX IF NOT EXISTS one_booked_allocation_per_bed
		ON allocations (bed_id) WHERE status = 'BOOKED'`,
	`CREATE TABLE IF NOT EXISTS blacklist (
		id             BIGSERIAL PRIMARY KEY,
		user_id        VARCHAR(50) NOT NULL,
		user_name      VARCHAR(255) NOT NULL,
		company        VARCHAR(255),
		reason         TEXT NOT NULL,
		blacklisted_by VARCHAR(255) NOT NULL DEFAULT 'admin',
		blacklisted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active      BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS one_active_blacklist_per_user
		ON blacklist (user_id) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS contractors (
		id              BIGSERIAL PRIMARY KEY,
		contractor_code VARCHAR(50) NOT NULL UNIQUE,
		name            VARCHAR(255) NOT NULL,
		company         VARCHAR(255) NOT NULL,
		phone_number    VARCHAR(20) NOT NULL UNIQUE,
		email           VARCHAR(255) NOT NULL UNIQUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(255) NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_user_id ON allocations (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_bed_id ON allocations (bed_id)`,
	`CREATE INDEX IF NOT EXISTS idx_beds_room_id ON beds (room_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rooms_floor_id ON rooms (floor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_floors_building_id ON floors (building_id)`,
}

// EnsureSchema creates all tables and indexes if they do not exist yet
func EnsureSchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// EnsureDefaultAdmin seeds a default admin account when the admins table is
// empty so the login endpoint is usable on a fresh install
func EnsureDefaultAdmin(db DB, password string, bcryptCost int) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM admins`); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	_, err = db.Exec(
		`INSERT INTO admins (username, password_hash, full_name) VALUES ($1, $2, $3)`,
		"admin", string(hash), "Camp Administrator",
	)
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}
	return nil
}
