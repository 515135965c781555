package dto

import (
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/service"
)

// FinalizeDayRequest is one employee/day override.
type FinalizeDayRequest struct {
	Type      domain.AvailabilityType `json:"type"`
	Start     *string                 `json:"start,omitempty"` // HH:MM
	End       *string                 `json:"end,omitempty"`
	WorkArea  *domain.WorkArea        `json:"work_area,omitempty"`
	SectionID *string                 `json:"section_id,omitempty"`
}

// FinalizeRequest maps employee ids to their 7-day overrides.
type FinalizeRequest struct {
	Employees map[string][7]FinalizeDayRequest `json:"employees"`
}

// AssignmentResponse is one ledger row.
type AssignmentResponse struct {
	ID         string                  `json:"id"`
	EmployeeID string                  `json:"employee_id"`
	WorkDate   string                  `json:"work_date"`
	Start      string                  `json:"start"`
	End        string                  `json:"end"`
	FullDay    bool                    `json:"full_day"`
	Status     domain.AssignmentStatus `json:"status"`
	WorkArea   *domain.WorkArea        `json:"work_area,omitempty"`
	SectionID  *string                 `json:"section_id,omitempty"`
}

// AssignmentDayResponse groups one date.
type AssignmentDayResponse struct {
	Date        string               `json:"date"`
	Assignments []AssignmentResponse `json:"assignments"`
}

// ScheduleAssignmentsResponse is the grouped ledger view.
type ScheduleAssignmentsResponse struct {
	Period ScheduleResponse        `json:"period"`
	Days   []AssignmentDayResponse `json:"days"`
}

// NewScheduleAssignmentsResponse maps the service result.
func NewScheduleAssignmentsResponse(result *service.ScheduleAssignments) ScheduleAssignmentsResponse {
	resp := ScheduleAssignmentsResponse{Period: NewScheduleResponse(result.Period)}
	for _, day := range result.Days {
		dayResp := AssignmentDayResponse{
			Date:        day.Date.Format("2006-01-02"),
			Assignments: make([]AssignmentResponse, 0, len(day.Assignments)),
		}
		for i := range day.Assignments {
			a := &day.Assignments[i]
			dayResp.Assignments = append(dayResp.Assignments, AssignmentResponse{
				ID:         a.ID,
				EmployeeID: a.EmployeeID,
				WorkDate:   a.WorkDate.Format("2006-01-02"),
				Start:      a.StartTime.String(),
				End:        a.EndTime.String(),
				FullDay:    a.FullDay,
				Status:     a.Status,
				WorkArea:   a.WorkArea,
				SectionID:  a.SectionID,
			})
		}
		resp.Days = append(resp.Days, dayResp)
	}
	return resp
}
