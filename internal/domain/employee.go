package domain

import "time"

// EmployeeRole enumerates access levels for workforce members.
type EmployeeRole string

const (
	EmployeeRoleStaff   EmployeeRole = "STAFF"
	EmployeeRoleManager EmployeeRole = "MANAGER"
	EmployeeRoleAdmin   EmployeeRole = "ADMIN"
)

// EmploymentType distinguishes hourly from salaried staff.
type EmploymentType string

const (
	EmploymentPartTime EmploymentType = "PART_TIME"
	EmploymentFullTime EmploymentType = "FULL_TIME"
)

// WorkArea tags the section an employee usually covers.
type WorkArea string

const (
	WorkAreaKitchen WorkArea = "KITCHEN"
	WorkAreaHall    WorkArea = "HALL"
)

// Employee models a workforce member. Owned by the directory; the
// scheduling core only reads it.
type Employee struct {
	ID             string
	StoreID        string
	Name           string
	Email          string
	PasswordHash   string
	Role           EmployeeRole
	EmploymentType EmploymentType
	HourlyRate     float64
	Section        *WorkArea
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
