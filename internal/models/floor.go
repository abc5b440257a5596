package models

import "time"

// Floor belongs to exactly one building; floor_number is unique per building
type Floor struct {
	ID          int64     `json:"id" db:"id"`
	BuildingID  int64     `json:"building_id" db:"building_id"`
	FloorNumber int       `json:"floor_number" db:"floor_number"`
	Name        string    `json:"name" db:"name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// FloorWithBuilding is the admin listing row
type FloorWithBuilding struct {
	ID          int64  `json:"id" db:"id"`
	FloorNumber int    `json:"floorNumber" db:"floor_number"`
	FloorName   string `json:"floorName" db:"floor_name"`
	Building    string `json:"building" db:"building"`
	BuildingID  int64  `json:"building_id" db:"building_id"`
}

// CreateFloorRequest creates a single floor on a building
type CreateFloorRequest struct {
	BuildingID  int64  `json:"buildingId" binding:"required"`
	FloorNumber *int   `json:"floorNumber" binding:"required"`
	Name        string `json:"name" binding:"required"`
}

// AddFloorsRequest appends floors to a building, numbered above the current max
type AddFloorsRequest struct {
	Building string `json:"building" binding:"required"`
	Count    int    `json:"floorNumber" binding:"required,min=1"`
}
