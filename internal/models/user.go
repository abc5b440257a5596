package models

import "time"

// User is a worker identified by an externally supplied ID. Rows are
// upserted on first allocation and never deleted.
type User struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Company   string    `json:"company" db:"company"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
