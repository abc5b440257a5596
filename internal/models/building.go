package models

import "time"

// Building is a camp accommodation building. Its 1-based position among
// active buildings in creation order is the sequential index used by the
// allocation code; it is computed, never stored.
type Building struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   *string   `json:"address" db:"address"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// BuildingSummary is the admin listing row with a floor count
type BuildingSummary struct {
	ID           int64   `json:"id" db:"id"`
	BuildingName string  `json:"buildingName" db:"building_name"`
	BuildingCode *string `json:"buildingCode" db:"building_code"`
	Floors       int     `json:"floors" db:"floors"`
}

// CreateBuildingRequest creates a building together with its initial floors
type CreateBuildingRequest struct {
	BuildingName string `json:"buildingName" binding:"required"`
	BuildingCode string `json:"buildingCode"`
	Floors       int    `json:"floors"`
}
