package models

import "time"

// BlacklistEntry bars a worker from new allocations while active. At most
// one active entry exists per user.
type BlacklistEntry struct {
	ID            int64     `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	UserName      string    `json:"user_name" db:"user_name"`
	Company       *string   `json:"company" db:"company"`
	Reason        string    `json:"reason" db:"reason"`
	BlacklistedBy string    `json:"blacklisted_by" db:"blacklisted_by"`
	BlacklistedAt time.Time `json:"blacklisted_at" db:"blacklisted_at"`
	IsActive      bool      `json:"is_active" db:"is_active"`
}

// AddBlacklistRequest adds a worker to the blacklist
type AddBlacklistRequest struct {
	UserID        string `json:"userId" binding:"required"`
	UserName      string `json:"userName" binding:"required"`
	Company       string `json:"company"`
	Reason        string `json:"reason" binding:"required"`
	BlacklistedBy string `json:"blacklistedBy"`
}
