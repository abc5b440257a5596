package models

import "time"

// MaxRoomNumber bounds auto-assigned room numbers so they fit the two-digit
// slot of the allocation code
const MaxRoomNumber = 99

// Room belongs to exactly one floor; room_number is unique per floor
type Room struct {
	ID         int64     `json:"id" db:"id"`
	FloorID    int64     `json:"floor_id" db:"floor_id"`
	RoomNumber int       `json:"room_number" db:"room_number"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RoomWithOccupancy is a room plus its computed bed occupancy
type RoomWithOccupancy struct {
	Room
	TotalBeds         int    `json:"total_beds" db:"total_beds"`
	VacantBeds        int    `json:"vacant_beds" db:"vacant_beds"`
	OccupiedBeds      int    `json:"occupied_beds" db:"occupied_beds"`
	DisplayRoomNumber string `json:"display_room_number" db:"-"`
}

// RoomWithLocation is the admin listing row
type RoomWithLocation struct {
	ID         int64  `json:"id" db:"id"`
	RoomNumber int    `json:"roomNumber" db:"room_number"`
	Building   string `json:"building" db:"building"`
	Floor      int    `json:"floor" db:"floor"`
	FloorID    int64  `json:"floor_id" db:"floor_id"`
	BuildingID int64  `json:"building_id" db:"building_id"`
}

// CreateRoomRequest auto-assigns the lowest free room number on the floor
type CreateRoomRequest struct {
	FloorID int64 `json:"floorId" binding:"required"`
}

// AddRoomsRequest creates several rooms on a floor in one call
type AddRoomsRequest struct {
	Count   int   `json:"roomNumber" binding:"required,min=1"`
	FloorID int64 `json:"floorId" binding:"required"`
}
