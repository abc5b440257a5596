package models

import "time"

// Contractor is a master record for a contracting company
type Contractor struct {
	ID             int64     `json:"id" db:"id"`
	ContractorCode string    `json:"contractor_code" db:"contractor_code"`
	Name           string    `json:"name" db:"name"`
	Company        string    `json:"company" db:"company"`
	PhoneNumber    string    `json:"phone_number" db:"phone_number"`
	Email          string    `json:"email" db:"email"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ContractorWithWorkers is a listing row with the count of workers that
// currently hold an open allocation under this contractor. Legacy rows that
// exist only as contractor names on allocations have a nil ID.
type ContractorWithWorkers struct {
	ID             *int64     `json:"id" db:"id"`
	ContractorCode *string    `json:"contractor_code" db:"contractor_code"`
	Name           string     `json:"name" db:"name"`
	Company        string     `json:"company" db:"company"`
	PhoneNumber    string     `json:"phone_number" db:"phone_number"`
	Email          string     `json:"email" db:"email"`
	CreatedAt      *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at" db:"updated_at"`
	WorkerCount    int        `json:"worker_count" db:"worker_count"`
}

// CreateContractorRequest registers a contractor master record
type CreateContractorRequest struct {
	ContractorCode string `json:"contractorCode" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Company        string `json:"company" binding:"required"`
	PhoneNumber    string `json:"phoneNumber" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
}
