package dto

import (
	"time"

	"github.com/spec-kit/shift-service/internal/domain"
)

// DayAvailabilityRequest is one day's declared window.
type DayAvailabilityRequest struct {
	Type  domain.AvailabilityType `json:"type"`
	Start *string                 `json:"start,omitempty"` // HH:MM
	End   *string                 `json:"end,omitempty"`
}

// SubmitAvailabilityRequest carries the full 7-day map, index 0 being
// the period's week-start.
type SubmitAvailabilityRequest struct {
	Days [7]DayAvailabilityRequest `json:"days"`
}

// AvailabilityEntryResponse is one employee's submission.
type AvailabilityEntryResponse struct {
	ID         string                  `json:"id"`
	ScheduleID string                  `json:"schedule_id"`
	EmployeeID string                  `json:"employee_id"`
	Days       domain.WeekAvailability `json:"days"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// NewAvailabilityEntryResponse maps an entry.
func NewAvailabilityEntryResponse(entry *domain.AvailabilityEntry) AvailabilityEntryResponse {
	return AvailabilityEntryResponse{
		ID:         entry.ID,
		ScheduleID: entry.ScheduleID,
		EmployeeID: entry.EmployeeID,
		Days:       entry.Days,
		UpdatedAt:  entry.UpdatedAt,
	}
}
