package domain

import "time"

// DayType classifies a calendar date for staffing purposes.
type DayType string

const (
	DayTypeWeekday DayType = "WEEKDAY"
	DayTypeWeekend DayType = "WEEKEND"
	DayTypeHoliday DayType = "HOLIDAY"
)

// Session cutoffs: a window starting at or before LunchLatestStart is
// lunch-eligible; a window ending at or after DinnerEarliestEnd is
// dinner-eligible. A FULL day qualifies for both.
var (
	LunchLatestStart  = MinutesOfDay(15, 0)
	DinnerEarliestEnd = MinutesOfDay(17, 0)
)

// StaffingPolicy is the per-store, per-day-type staffing target read
// by the assignment engine. Mutated only by administrators.
type StaffingPolicy struct {
	ID              string
	StoreID         string
	DayType         DayType
	OpenTime        TimeOfDay
	CloseTime       TimeOfDay
	BreakStart      TimeOfDay
	BreakEnd        TimeOfDay
	LunchHeadcount  int
	DinnerHeadcount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Holiday marks a calendar date that uses the HOLIDAY staffing row.
type Holiday struct {
	Date time.Time
	Name string
}

// ClassifyDate maps a date to its staffing day type. Dates in the
// holiday set win over the weekend rule.
func ClassifyDate(date time.Time, isHoliday bool) DayType {
	if isHoliday {
		return DayTypeHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeWeekend
	default:
		return DayTypeWeekday
	}
}
