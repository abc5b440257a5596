package models

// BuildingVacancy is a per-building bed availability row
type BuildingVacancy struct {
	BuildingName string `json:"building_name" db:"building_name"`
	TotalBeds    int    `json:"total_beds" db:"total_beds"`
	VacantBeds   int    `json:"vacant_beds" db:"vacant_beds"`
}

// ContractorHeadcount groups allocations by contractor and company
type ContractorHeadcount struct {
	ContractorName string `json:"contractor_name" db:"contractor_name"`
	Company        string `json:"company" db:"company"`
	EmployeeCount  int    `json:"employeeCount" db:"employee_count"`
}

// DashboardSummary is the headline card shown on the dashboard
type DashboardSummary struct {
	VendorName        string `json:"vendorName"`
	CompanyName       string `json:"companyName"`
	ActiveEmployees   int    `json:"activeEmployees"`
	InactiveEmployees int    `json:"inactiveEmployees"`
}
