package events

import (
	"time"

	"github.com/spec-kit/shift-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAvailabilitySubmitted EventType = "availability_submitted"
	EventScheduleAssigned      EventType = "schedule_assigned"
	EventAssignmentsFinalized  EventType = "assignments_finalized"
	EventScheduleClosed        EventType = "schedule_closed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	EmployeeID string              `json:"employee_id"`
	Role       domain.EmployeeRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ScheduleID string      `json:"schedule_id"`
	StoreID    string      `json:"store_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// AvailabilitySubmittedPayload payload.
type AvailabilitySubmittedPayload struct {
	EmployeeID string `json:"employee_id"`
}

// ScheduleAssignedPayload payload.
type ScheduleAssignedPayload struct {
	Assigned     int  `json:"assigned"`
	Understaffed bool `json:"understaffed"`
}

// AssignmentsFinalizedPayload payload.
type AssignmentsFinalizedPayload struct {
	Employees int `json:"employees"`
}

// ScheduleClosedPayload payload.
type ScheduleClosedPayload struct {
	WeekStart string `json:"week_start"`
}
