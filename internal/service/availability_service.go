package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/events"
	"github.com/spec-kit/shift-service/internal/persistence"
	"github.com/spec-kit/shift-service/internal/repository"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// AvailabilityService handles availability intake for open periods.
type AvailabilityService struct {
	schedules    repository.ScheduleRepository
	availability repository.AvailabilityRepository
	tx           persistence.TxRunner
	dispatcher   events.Dispatcher
}

// AvailabilityDependencies bundles repositories.
type AvailabilityDependencies struct {
	ScheduleRepo     repository.ScheduleRepository
	AvailabilityRepo repository.AvailabilityRepository
	TxRunner         persistence.TxRunner
	Dispatcher       events.Dispatcher
}

// NewAvailabilityService creates the service.
func NewAvailabilityService(deps AvailabilityDependencies) *AvailabilityService {
	return &AvailabilityService{
		schedules:    deps.ScheduleRepo,
		availability: deps.AvailabilityRepo,
		tx:           deps.TxRunner,
		dispatcher:   deps.Dispatcher,
	}
}

// Submit replaces the employee's availability for the period. The
// period must still be open and belong to the employee's own store.
func (s *AvailabilityService) Submit(ctx context.Context, actor *domain.Employee, scheduleID string, days domain.WeekAvailability) (*domain.AvailabilityEntry, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	normalized, err := NormalizeWeek(days)
	if err != nil {
		return nil, err
	}

	entry := &domain.AvailabilityEntry{
		ScheduleID: scheduleID,
		EmployeeID: actor.ID,
		Days:       normalized,
	}

	var period *domain.SchedulePeriod
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		period, err = s.schedules.WithTx(tx).GetForUpdate(ctx, scheduleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("schedule period", map[string]any{"schedule_id": scheduleID})
			}
			return err
		}
		if period.StoreID != actor.StoreID {
			return apperrors.NewForbidden("period belongs to another store")
		}
		if period.Status != domain.ScheduleStatusOpen {
			return apperrors.NewConflict("period is not open for submissions", map[string]any{
				"schedule_id": scheduleID,
				"status":      period.Status,
			})
		}
		return s.availability.WithTx(tx).Upsert(ctx, entry)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, period, events.EventAvailabilitySubmitted, events.AvailabilitySubmittedPayload{
		EmployeeID: actor.ID,
	})
	return entry, nil
}

// ListForSchedule returns every submission for the period, in
// submission order. Used by administrators to preview coverage before
// running the engine.
func (s *AvailabilityService) ListForSchedule(ctx context.Context, scheduleID string, scope StoreScope) ([]domain.AvailabilityEntry, error) {
	period, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("schedule period", map[string]any{"schedule_id": scheduleID})
		}
		return nil, apperrors.MapError(err)
	}
	if !scope.Allows(period.StoreID) {
		return nil, apperrors.NewForbidden("store outside caller scope")
	}
	entries, err := s.availability.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *AvailabilityService) publish(ctx context.Context, actor *domain.Employee, period *domain.SchedulePeriod, eventType events.EventType, payload any) {
	if s.dispatcher == nil || period == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ScheduleID: period.ID,
		StoreID:    period.StoreID,
		Actor:      events.Actor{EmployeeID: actor.ID, Role: actor.Role},
		Timestamp:  time.Now(),
		Payload:    payload,
	})
}

// NormalizeWeek validates the submitted tri-state day map. PART days
// need an ordered start/end pair; FULL and OFF days never carry times.
func NormalizeWeek(days domain.WeekAvailability) (domain.WeekAvailability, error) {
	for i, day := range days {
		switch day.Type {
		case domain.AvailabilityFull, domain.AvailabilityOff:
			days[i].Start = nil
			days[i].End = nil
		case domain.AvailabilityPart:
			if day.Start == nil || day.End == nil {
				return days, apperrors.NewValidationError(
					fmt.Sprintf("day %d: PART requires start and end", i), nil)
			}
			if !day.Start.Before(*day.End) {
				return days, apperrors.NewValidationError(
					fmt.Sprintf("day %d: start must be before end", i), nil)
			}
		default:
			return days, apperrors.NewValidationError(
				fmt.Sprintf("day %d: unknown day type %q", i, day.Type), nil)
		}
	}
	return days, nil
}
