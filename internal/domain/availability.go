package domain

import "time"

// AvailabilityType is the tri-state an employee declares per day.
type AvailabilityType string

const (
	AvailabilityFull AvailabilityType = "FULL"
	AvailabilityPart AvailabilityType = "PART"
	AvailabilityOff  AvailabilityType = "OFF"
)

// DayAvailability is one day's declared working window. Start/End are
// only present when Type is PART.
type DayAvailability struct {
	Type  AvailabilityType `json:"type"`
	Start *TimeOfDay       `json:"start,omitempty"`
	End   *TimeOfDay       `json:"end,omitempty"`
}

// WeekAvailability holds one entry per day of the period, index 0
// being the week-start (Monday).
type WeekAvailability [7]DayAvailability

// AvailabilityEntry is an employee's submission for one schedule
// period. Resubmission replaces the days in place; SubmittedSeq keeps
// the original submission order for the assignment engine.
type AvailabilityEntry struct {
	ID           string
	ScheduleID   string
	EmployeeID   string
	Days         WeekAvailability
	SubmittedSeq int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
