package domain

import "time"

// AssignmentStatus enumerates the state of a concrete shift.
type AssignmentStatus string

const (
	AssignmentStatusAssigned  AssignmentStatus = "ASSIGNED"
	AssignmentStatusConfirmed AssignmentStatus = "CONFIRMED"
	AssignmentStatusCancelled AssignmentStatus = "CANCELLED"
)

// Assignment is a concrete, dated, timed shift linking one employee
// to one schedule period. The (schedule, employee, date) triple is
// unique; re-assignment overwrites rather than duplicates.
type Assignment struct {
	ID         string
	ScheduleID string
	EmployeeID string
	WorkDate   time.Time
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	FullDay    bool
	Status     AssignmentStatus
	WorkArea   *WorkArea
	SectionID  *string
	UpdatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SpanMinutes is the raw shift length before break deduction.
func (a *Assignment) SpanMinutes() int {
	return a.EndTime.Sub(a.StartTime)
}
