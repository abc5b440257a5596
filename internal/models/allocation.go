package models

import "time"

// AllocationStatus represents the lifecycle state of an allocation
type AllocationStatus string

const (
	AllocationStatusBooked   AllocationStatus = "BOOKED"
	AllocationStatusReleased AllocationStatus = "RELEASED"
	// AllocationStatusCancelled exists in the schema but no operation sets
	// it; reserved for future use.
	AllocationStatusCancelled AllocationStatus = "CANCELLED"
)

// Allocation assigns a worker to a bed for a date range
type Allocation struct {
	ID             int64            `json:"id" db:"id"`
	UserID         string           `json:"user_id" db:"user_id"`
	BedID          int64            `json:"bed_id" db:"bed_id"`
	ContractorName string           `json:"contractor_name" db:"contractor_name"`
	Remarks        *string          `json:"remarks" db:"remarks"`
	StartDate      *time.Time       `json:"start_date" db:"start_date"`
	EndDate        *time.Time       `json:"end_date" db:"end_date"`
	Status         AllocationStatus `json:"status" db:"status"`
	AllocationCode *string          `json:"allocation_code" db:"allocation_code"`
	AllocatedAt    time.Time        `json:"allocated_at" db:"allocated_at"`
	ReleasedAt     *time.Time       `json:"released_at" db:"released_at"`
}

// AllocationView is an allocation joined with its worker and bed location
type AllocationView struct {
	ID             int64            `json:"id" db:"id"`
	UserID         string           `json:"userId" db:"user_id"`
	UserName       string           `json:"userName" db:"user_name"`
	Company        string           `json:"company" db:"company"`
	ContractorName string           `json:"contractorName" db:"contractor_name"`
	Remarks        *string          `json:"remarks" db:"remarks"`
	StartDate      *time.Time       `json:"start_date" db:"start_date"`
	EndDate        *time.Time       `json:"end_date" db:"end_date"`
	Status         AllocationStatus `json:"status" db:"status"`
	AllocatedAt    time.Time        `json:"created_at" db:"allocated_at"`
	ReleasedAt     *time.Time       `json:"released_at,omitempty" db:"released_at"`
	BedID          int64            `json:"bed_id" db:"bed_id"`
	AllocationCode string           `json:"allocation_code" db:"allocation_code"`
	BedNumber      int              `json:"bed_number" db:"bed_number"`
	RoomNumber     int              `json:"room_number" db:"room_number"`
	FloorNumber    int              `json:"floor_number" db:"floor_number"`
	FloorID        int64            `json:"floorId,omitempty" db:"floor_id"`
	BuildingID     int64            `json:"buildingId" db:"building_id"`
	BuildingName   string           `json:"buildingName" db:"building_name"`
	// BuildingSeq is the 1-based position among active buildings, computed
	// at read time; zero when the building is no longer active.
	BuildingSeq int `json:"building_seq" db:"-"`
}

// CreateAllocationRequest books a bed for a worker
type CreateAllocationRequest struct {
	UserID         string `json:"userId" binding:"required"`
	UserName       string `json:"userName"`
	Company        string `json:"company"`
	ContractorName string `json:"contractorName"`
	BedID          int64  `json:"bedId" binding:"required"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Remarks        string `json:"remarks"`
}

// UpdateAllocationRequest edits allocation details; Checkout releases the
// allocation and frees the bed
type UpdateAllocationRequest struct {
	UserName       string `json:"userName"`
	Company        string `json:"company"`
	ContractorName string `json:"contractorName"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Remarks        string `json:"remarks"`
	Checkout       bool   `json:"checkout"`
}
