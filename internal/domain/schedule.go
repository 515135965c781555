package domain

import "time"

// ScheduleStatus enumerates the lifecycle of a weekly schedule period.
type ScheduleStatus string

const (
	ScheduleStatusOpen     ScheduleStatus = "OPEN"
	ScheduleStatusAssigned ScheduleStatus = "ASSIGNED"
	ScheduleStatusClosed   ScheduleStatus = "CLOSED"
)

// SchedulePeriod is one store's one-week scheduling window.
// WeekEnd is always WeekStart + 6 days.
type SchedulePeriod struct {
	ID        string
	StoreID   string
	WeekStart time.Time
	WeekEnd   time.Time
	Status    ScheduleStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dates returns the 7 calendar dates of the period in order.
func (p *SchedulePeriod) Dates() []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = p.WeekStart.AddDate(0, 0, i)
	}
	return dates
}

// Contains reports whether date falls inside the period.
func (p *SchedulePeriod) Contains(date time.Time) bool {
	return !date.Before(p.WeekStart) && !date.After(p.WeekEnd)
}
