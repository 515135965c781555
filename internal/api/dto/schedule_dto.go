package dto

import (
	"time"

	"github.com/spec-kit/shift-service/internal/domain"
)

// CreateScheduleRequest opens a new week for a store.
type CreateScheduleRequest struct {
	StoreID   string `json:"store_id"`
	WeekStart string `json:"week_start"` // YYYY-MM-DD, must be a Monday
}

// ScheduleResponse describes one period.
type ScheduleResponse struct {
	ID        string                `json:"id"`
	StoreID   string                `json:"store_id"`
	WeekStart string                `json:"week_start"`
	WeekEnd   string                `json:"week_end"`
	Status    domain.ScheduleStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewScheduleResponse maps a period.
func NewScheduleResponse(period *domain.SchedulePeriod) ScheduleResponse {
	return ScheduleResponse{
		ID:        period.ID,
		StoreID:   period.StoreID,
		WeekStart: period.WeekStart.Format("2006-01-02"),
		WeekEnd:   period.WeekEnd.Format("2006-01-02"),
		Status:    period.Status,
		CreatedAt: period.CreatedAt,
		UpdatedAt: period.UpdatedAt,
	}
}
