package models

import "time"

// BedStatus represents the status of a bed
type BedStatus string

const (
	BedStatusAvailable BedStatus = "AVAILABLE"
	BedStatusBooked    BedStatus = "BOOKED"
)

// Bed belongs to exactly one room; bed_number is unique per room. Status is
// the only mutable field.
type Bed struct {
	ID        int64     `json:"id" db:"id"`
	RoomID    int64     `json:"room_id" db:"room_id"`
	BedNumber int       `json:"bed_number" db:"bed_number"`
	Status    BedStatus `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Zero-padded bed number as shown in the six-digit code, computed on read
	DisplayBedNumber string `json:"display_bed_number" db:"-"`
}

// BedWithLocation is the admin listing row
type BedWithLocation struct {
	ID        int64     `json:"id" db:"id"`
	BedNumber int       `json:"bedNumber" db:"bed_number"`
	Status    BedStatus `json:"status" db:"status"`
	Room      int       `json:"room" db:"room"`
	Building  string    `json:"building" db:"building"`
	Floor     int       `json:"floor" db:"floor"`
}

// CreateBedRequest auto-assigns the next bed number in the room
type CreateBedRequest struct {
	RoomID int64 `json:"roomId" binding:"required"`
}

// AddBedsRequest creates several beds in a room in one call
type AddBedsRequest struct {
	Count  int   `json:"bedNumber" binding:"required,min=1"`
	RoomID int64 `json:"roomId" binding:"required"`
}
