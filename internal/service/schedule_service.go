package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/events"
	"github.com/spec-kit/shift-service/internal/persistence"
	"github.com/spec-kit/shift-service/internal/repository"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// ScheduleService manages the period lifecycle: open, close, delete.
type ScheduleService struct {
	schedules  repository.ScheduleRepository
	stores     repository.StoreRepository
	tx         persistence.TxRunner
	dispatcher events.Dispatcher
}

// ScheduleDependencies bundles repositories.
type ScheduleDependencies struct {
	ScheduleRepo repository.ScheduleRepository
	StoreRepo    repository.StoreRepository
	TxRunner     persistence.TxRunner
	Dispatcher   events.Dispatcher
}

// NewScheduleService creates the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	return &ScheduleService{
		schedules:  deps.ScheduleRepo,
		stores:     deps.StoreRepo,
		tx:         deps.TxRunner,
		dispatcher: deps.Dispatcher,
	}
}

// OpenPeriod creates a new one-week scheduling window in OPEN status.
// Week starts are always Mondays.
func (s *ScheduleService) OpenPeriod(ctx context.Context, storeID string, weekStart time.Time, scope StoreScope) (*domain.SchedulePeriod, error) {
	if weekStart.Weekday() != time.Monday {
		return nil, apperrors.NewValidationError("week start must be a Monday", map[string]any{
			"week_start": weekStart.Format("2006-01-02"),
		})
	}
	if !scope.Allows(storeID) {
		return nil, apperrors.NewForbidden("store outside caller scope")
	}
	if _, err := s.stores.GetByID(ctx, storeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("store", map[string]any{"store_id": storeID})
		}
		return nil, apperrors.MapError(err)
	}

	period := &domain.SchedulePeriod{
		StoreID:   storeID,
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDate(0, 0, 6),
		Status:    domain.ScheduleStatusOpen,
	}
	if err := s.schedules.Create(ctx, period); err != nil {
		return nil, apperrors.MapError(err)
	}
	return period, nil
}

// GetPeriod fetches one period inside the caller's scope.
func (s *ScheduleService) GetPeriod(ctx context.Context, scheduleID string, scope StoreScope) (*domain.SchedulePeriod, error) {
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
	return period, nil
}

// ListPeriods lists a store's periods, newest first.
func (s *ScheduleService) ListPeriods(ctx context.Context, storeID string, limit, offset int, scope StoreScope) ([]domain.SchedulePeriod, error) {
	if !scope.Allows(storeID) {
		return nil, apperrors.NewForbidden("store outside caller scope")
	}
	periods, err := s.schedules.ListByStore(ctx, storeID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return periods, nil
}

// ClosePeriod moves an assigned period to its terminal CLOSED state.
// Closing an open period is rejected; the lifecycle never skips or
// moves backward.
func (s *ScheduleService) ClosePeriod(ctx context.Context, actor *domain.Employee, scheduleID string, scope StoreScope) (*domain.SchedulePeriod, error) {
	var period *domain.SchedulePeriod
	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		var err error
		period, err = s.schedules.WithTx(tx).GetForUpdate(ctx, scheduleID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("schedule period", map[string]any{"schedule_id": scheduleID})
			}
			return err
		}
		if !scope.Allows(period.StoreID) {
			return apperrors.NewForbidden("store outside caller scope")
		}
		if period.Status != domain.ScheduleStatusAssigned {
			return apperrors.NewConflict("only assigned periods can be closed", map[string]any{
				"schedule_id": scheduleID,
				"status":      period.Status,
			})
		}
		if err := s.schedules.WithTx(tx).UpdateStatus(ctx, scheduleID, domain.ScheduleStatusClosed); err != nil {
			return err
		}
		period.Status = domain.ScheduleStatusClosed
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil && actor != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventScheduleClosed,
			ScheduleID: period.ID,
			StoreID:    period.StoreID,
			Actor:      events.Actor{EmployeeID: actor.ID, Role: actor.Role},
			Timestamp:  time.Now(),
			Payload:    events.ScheduleClosedPayload{WeekStart: period.WeekStart.Format("2006-01-02")},
		})
	}
	return period, nil
}

// DeletePeriod removes a period; availability and assignment rows
// cascade with it.
func (s *ScheduleService) DeletePeriod(ctx context.Context, scheduleID string, scope StoreScope) error {
	period, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("schedule period", map[string]any{"schedule_id": scheduleID})
		}
		return apperrors.MapError(err)
	}
	if !scope.Allows(period.StoreID) {
		return apperrors.NewForbidden("store outside caller scope")
	}
	if err := s.schedules.Delete(ctx, scheduleID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
