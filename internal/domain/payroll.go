package domain

import "time"

// PayrollDay is one paid shift's contribution to the month.
type PayrollDay struct {
	Date            time.Time `json:"date"`
	WorkedMinutes   int       `json:"worked_minutes"`
	BreakMinutes    int       `json:"break_minutes"`
	OvertimeMinutes int       `json:"overtime_minutes"`
	HourlyRate      float64   `json:"hourly_rate"`
	Pay             float64   `json:"pay"`
}

// PayrollWeek groups the month's days into ISO-style Monday weeks.
type PayrollWeek struct {
	WeekStart       time.Time    `json:"week_start"`
	Days            []PayrollDay `json:"days"`
	WorkedMinutes   int          `json:"worked_minutes"`
	OvertimeMinutes int          `json:"overtime_minutes"`
	Pay             float64      `json:"pay"`
}

// EmployeePayroll is the derived roll-up for one employee and one
// calendar month. Never persisted; recomputed from the ledger on
// every read.
type EmployeePayroll struct {
	EmployeeID      string         `json:"employee_id"`
	EmployeeName    string         `json:"employee_name"`
	EmploymentType  EmploymentType `json:"employment_type"`
	Month           string         `json:"month"`
	Weeks           []PayrollWeek  `json:"weeks"`
	WorkedMinutes   int            `json:"worked_minutes"`
	OvertimeMinutes int            `json:"overtime_minutes"`
	Pay             float64        `json:"pay"`
}

// StorePayroll aggregates every employee in a store scope, with a
// grand total used for labor-cost reporting.
type StorePayroll struct {
	StoreID       string            `json:"store_id"`
	Month         string            `json:"month"`
	Employees     []EmployeePayroll `json:"employees"`
	WorkedMinutes int               `json:"worked_minutes"`
	Pay           float64           `json:"pay"`
}
