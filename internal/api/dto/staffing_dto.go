package dto

import "github.com/spec-kit/shift-service/internal/domain"

// UpsertStaffingPolicyRequest writes one store/day-type staffing row.
type UpsertStaffingPolicyRequest struct {
	OpenTime        string `json:"open_time"`  // HH:MM
	CloseTime       string `json:"close_time"` // HH:MM
	BreakStart      string `json:"break_start"`
	BreakEnd        string `json:"break_end"`
	LunchHeadcount  int    `json:"lunch_headcount"`
	DinnerHeadcount int    `json:"dinner_headcount"`
}

// StaffingPolicyResponse describes one staffing row.
type StaffingPolicyResponse struct {
	ID              string         `json:"id"`
	StoreID         string         `json:"store_id"`
	DayType         domain.DayType `json:"day_type"`
	OpenTime        string         `json:"open_time"`
	CloseTime       string         `json:"close_time"`
	BreakStart      string         `json:"break_start"`
	BreakEnd        string         `json:"break_end"`
	LunchHeadcount  int            `json:"lunch_headcount"`
	DinnerHeadcount int            `json:"dinner_headcount"`
}

// NewStaffingPolicyResponse maps a policy.
func NewStaffingPolicyResponse(policy *domain.StaffingPolicy) StaffingPolicyResponse {
	return StaffingPolicyResponse{
		ID:              policy.ID,
		StoreID:         policy.StoreID,
		DayType:         policy.DayType,
		OpenTime:        policy.OpenTime.String(),
		CloseTime:       policy.CloseTime.String(),
		BreakStart:      policy.BreakStart.String(),
		BreakEnd:        policy.BreakEnd.String(),
		LunchHeadcount:  policy.LunchHeadcount,
		DinnerHeadcount: policy.DinnerHeadcount,
	}
}
