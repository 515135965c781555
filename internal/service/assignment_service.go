package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/config"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/events"
	"github.com/spec-kit/shift-service/internal/persistence"
	"github.com/spec-kit/shift-service/internal/repository"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// AssignmentService runs the auto-assignment engine and the manual
// finalization escape hatch over the assignment ledger.
type AssignmentService struct {
	schedules    repository.ScheduleRepository
	availability repository.AvailabilityRepository
	assignments  repository.AssignmentRepository
	policies     repository.StaffingPolicyRepository
	holidays     repository.HolidayRepository
	tx           persistence.TxRunner
	dispatcher   events.Dispatcher
	defaults     enginePolicyDefaults
}

type enginePolicyDefaults struct {
	lunchHeadcount  int
	dinnerHeadcount int
	openTime        domain.TimeOfDay
	closeTime       domain.TimeOfDay
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	ScheduleRepo     repository.ScheduleRepository
	AvailabilityRepo repository.AvailabilityRepository
	AssignmentRepo   repository.AssignmentRepository
	PolicyRepo       repository.StaffingPolicyRepository
	HolidayRepo      repository.HolidayRepository
	TxRunner         persistence.TxRunner
	Dispatcher       events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(cfg config.SchedulingConfig, deps AssignmentDependencies) (*AssignmentService, error) {
	open, err := domain.ParseTimeOfDay(cfg.DefaultOpenTime)
	if err != nil {
		return nil, fmt.Errorf("invalid default open time: %w", err)
	}
	closeTime, err := domain.ParseTimeOfDay(cfg.DefaultCloseTime)
	if err != nil {
		return nil, fmt.Errorf("invalid default close time: %w", err)
	}
	return &AssignmentService{
		schedules:    deps.ScheduleRepo,
		availability: deps.AvailabilityRepo,
		assignments:  deps.AssignmentRepo,
		policies:     deps.PolicyRepo,
		holidays:     deps.HolidayRepo,
		tx:           deps.TxRunner,
		dispatcher:   deps.Dispatcher,
		defaults: enginePolicyDefaults{
			lunchHeadcount:  cfg.DefaultLunchHeadcount,
			dinnerHeadcount: cfg.DefaultDinnerHeadcount,
			openTime:        open,
			closeTime:       closeTime,
		},
	}, nil
}

// SessionFill reports one session's required versus achieved headcount.
type SessionFill struct {
	Required int `json:"required"`
	Filled   int `json:"filled"`
}

// DayFillReport is the engine's per-date staffing outcome. Unfilled
// headcount is surfaced here rather than treated as an error.
type DayFillReport struct {
	Date    time.Time      `json:"date"`
	DayType domain.DayType `json:"day_type"`
	Lunch   SessionFill    `json:"lunch"`
	Dinner  SessionFill    `json:"dinner"`
}

// AutoAssignResult summarizes one engine run.
type AutoAssignResult struct {
	ScheduleID string                `json:"schedule_id"`
	Status     domain.ScheduleStatus `json:"status"`
	Assigned   int                   `json:"assigned"`
	Days       []DayFillReport       `json:"days"`
}

// dayPlan is the staffing target resolved for one date.
type dayPlan struct {
	dayType         domain.DayType
	openTime        domain.TimeOfDay
	closeTime       domain.TimeOfDay
	lunchHeadcount  int
	dinnerHeadcount int
}

// AutoAssign converts availability into concrete assignments for the
// period. The run locks the period row, so a concurrent second run
// serializes and then fails the open-status check with Conflict.
func (s *AssignmentService) AutoAssign(ctx context.Context, actor *domain.Employee, scheduleID string, scope StoreScope) (*AutoAssignResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}

	var (
		result *AutoAssignResult
		period *domain.SchedulePeriod
	)
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
		if period.Status != domain.ScheduleStatusOpen {
			return apperrors.NewConflict("period already assigned or closed", map[string]any{
				"schedule_id": scheduleID,
				"status":      period.Status,
			})
		}

		entries, err := s.availability.WithTx(tx).ListBySchedule(ctx, scheduleID)
		if err != nil {
			return err
		}
		plans, err := s.resolveDayPlans(ctx, period)
		if err != nil {
			return err
		}

		assignmentRepo := s.assignments.WithTx(tx)
		// recompute from scratch rather than append
		if err := assignmentRepo.DeleteBySchedule(ctx, scheduleID); err != nil {
			return err
		}

		result = &AutoAssignResult{ScheduleID: scheduleID}
		for i, date := range period.Dates() {
			plan := plans[i]
			selected, report := selectForDate(entries, i, plan)
			report.Date = date
			result.Days = append(result.Days, report)

			for _, pick := range selected {
				assignment := &domain.Assignment{
					ScheduleID: scheduleID,
					EmployeeID: pick.employeeID,
					WorkDate:   date,
					StartTime:  pick.start,
					EndTime:    pick.end,
					FullDay:    pick.fullDay,
					Status:     domain.AssignmentStatusAssigned,
					UpdatedBy:  &actor.ID,
				}
				if err := assignmentRepo.Upsert(ctx, assignment); err != nil {
					return err
				}
				result.Assigned++
			}
		}

		if err := s.schedules.WithTx(tx).UpdateStatus(ctx, scheduleID, domain.ScheduleStatusAssigned); err != nil {
			return err
		}
		result.Status = domain.ScheduleStatusAssigned
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, period, events.EventScheduleAssigned, events.ScheduleAssignedPayload{
		Assigned:     result.Assigned,
		Understaffed: understaffed(result.Days),
	})
	return result, nil
}

// resolveDayPlans picks the staffing policy row for each of the 7
// dates, falling back to configured defaults when a store has no row
// for a day type.
func (s *AssignmentService) resolveDayPlans(ctx context.Context, period *domain.SchedulePeriod) ([7]dayPlan, error) {
	var plans [7]dayPlan

	holidays, err := s.holidays.ListBetween(ctx, period.WeekStart, period.WeekEnd)
	if err != nil {
		return plans, err
	}
	holidaySet := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.Format("2006-01-02")] = true
	}

	policyByType := make(map[domain.DayType]*domain.StaffingPolicy, 3)
	for i, date := range period.Dates() {
		dayType := domain.ClassifyDate(date, holidaySet[date.Format("2006-01-02")])
		policy, seen := policyByType[dayType]
		if !seen {
			policy, err = s.policies.GetByStoreAndDayType(ctx, period.StoreID, dayType)
			if err != nil {
				if !errors.Is(err, pgx.ErrNoRows) {
					return plans, err
				}
				policy = nil
			}
			policyByType[dayType] = policy
		}

		plan := dayPlan{
			dayType:         dayType,
			openTime:        s.defaults.openTime,
			closeTime:       s.defaults.closeTime,
			lunchHeadcount:  s.defaults.lunchHeadcount,
			dinnerHeadcount: s.defaults.dinnerHeadcount,
		}
		if policy != nil {
			plan.openTime = policy.OpenTime
			plan.closeTime = policy.CloseTime
			plan.lunchHeadcount = policy.LunchHeadcount
			plan.dinnerHeadcount = policy.DinnerHeadcount
		}
		plans[i] = plan
	}
	return plans, nil
}

type pick struct {
	employeeID string
	start      domain.TimeOfDay
	end        domain.TimeOfDay
	fullDay    bool
}

// selectForDate partitions candidates into the lunch and dinner pools
// and fills each session greedily in submission order. An employee
// taken for both sessions yields a single pick covering their whole
// window, never two rows.
func selectForDate(entries []domain.AvailabilityEntry, dayIndex int, plan dayPlan) ([]pick, DayFillReport) {
	report := DayFillReport{
		DayType: plan.dayType,
		Lunch:   SessionFill{Required: plan.lunchHeadcount},
		Dinner:  SessionFill{Required: plan.dinnerHeadcount},
	}

	selected := make(map[string]pick)
	order := make([]string, 0, len(entries))

	take := func(entry *domain.AvailabilityEntry, day domain.DayAvailability) {
		if _, ok := selected[entry.EmployeeID]; ok {
			return
		}
		p := pick{employeeID: entry.EmployeeID}
		if day.Type == domain.AvailabilityFull {
			p.start = plan.openTime
			p.end = plan.closeTime
			p.fullDay = true
		} else {
			p.start = *day.Start
			p.end = *day.End
		}
		selected[entry.EmployeeID] = p
		order = append(order, entry.EmployeeID)
	}

	for i := range entries {
		if report.Lunch.Filled >= plan.lunchHeadcount {
			break
		}
		entry := &entries[i]
		day := entry.Days[dayIndex]
		if lunchEligible(day) {
			take(entry, day)
			report.Lunch.Filled++
		}
	}
	for i := range entries {
		if report.Dinner.Filled >= plan.dinnerHeadcount {
			break
		}
		entry := &entries[i]
		day := entry.Days[dayIndex]
		if dinnerEligible(day) {
			take(entry, day)
			report.Dinner.Filled++
		}
	}

	picks := make([]pick, 0, len(order))
	for _, id := range order {
		picks = append(picks, selected[id])
	}
	return picks, report
}

func lunchEligible(day domain.DayAvailability) bool {
	if day.Type == domain.AvailabilityOff {
		return false
	}
	if day.Type == domain.AvailabilityFull {
		return true
	}
	return day.Start != nil && !domain.LunchLatestStart.Before(*day.Start)
}

func dinnerEligible(day domain.DayAvailability) bool {
	if day.Type == domain.AvailabilityOff {
		return false
	}
	if day.Type == domain.AvailabilityFull {
		return true
	}
	return day.End != nil && !day.End.Before(domain.DinnerEarliestEnd)
}

func understaffed(days []DayFillReport) bool {
	for _, d := range days {
		if d.Lunch.Filled < d.Lunch.Required || d.Dinner.Filled < d.Dinner.Required {
			return true
		}
	}
	return false
}

// DayOverride is one employee/day instruction supplied by manual
// finalization.
type DayOverride struct {
	Type      domain.AvailabilityType
	Start     *domain.TimeOfDay
	End       *domain.TimeOfDay
	WorkArea  *domain.WorkArea
	SectionID *string
}

// FinalizeInput maps employee ids to their 7-day overrides.
type FinalizeInput map[string][7]DayOverride

// Finalize writes administrator-supplied shifts directly into the
// ledger, bypassing the engine. OFF days remove the row for that
// employee/date; everything else upserts on the natural key.
func (s *AssignmentService) Finalize(ctx context.Context, actor *domain.Employee, scheduleID string, input FinalizeInput, scope StoreScope) (*domain.SchedulePeriod, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("employee required")
	}
	if err := validateFinalizeInput(input); err != nil {
		return nil, err
	}

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
		if period.Status == domain.ScheduleStatusClosed {
			return apperrors.NewConflict("period is closed", map[string]any{"schedule_id": scheduleID})
		}

		plans, err := s.resolveDayPlans(ctx, period)
		if err != nil {
			return err
		}

		assignmentRepo := s.assignments.WithTx(tx)
		for employeeID, days := range input {
			for i, date := range period.Dates() {
				override := days[i]
				if override.Type == domain.AvailabilityOff {
					if err := assignmentRepo.DeleteByKey(ctx, scheduleID, employeeID, date); err != nil {
						return err
					}
					continue
				}

				assignment := &domain.Assignment{
					ScheduleID: scheduleID,
					EmployeeID: employeeID,
					WorkDate:   date,
					Status:     domain.AssignmentStatusAssigned,
					WorkArea:   override.WorkArea,
					SectionID:  override.SectionID,
					UpdatedBy:  &actor.ID,
				}
				if override.Type == domain.AvailabilityFull {
					assignment.StartTime = plans[i].openTime
					assignment.EndTime = plans[i].closeTime
					assignment.FullDay = true
				} else {
					assignment.StartTime = *override.Start
					assignment.EndTime = *override.End
				}
				if err := assignmentRepo.Upsert(ctx, assignment); err != nil {
					return err
				}
			}
		}

		if period.Status == domain.ScheduleStatusOpen {
			if err := s.schedules.WithTx(tx).UpdateStatus(ctx, scheduleID, domain.ScheduleStatusAssigned); err != nil {
				return err
			}
			period.Status = domain.ScheduleStatusAssigned
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor, period, events.EventAssignmentsFinalized, events.AssignmentsFinalizedPayload{
		Employees: len(input),
	})
	return period, nil
}

func validateFinalizeInput(input FinalizeInput) error {
	for employeeID, days := range input {
		for i, override := range days {
			switch override.Type {
			case domain.AvailabilityFull, domain.AvailabilityOff:
				// times come from store hours or are absent
			case domain.AvailabilityPart:
				if override.Start == nil || override.End == nil {
					return apperrors.NewValidationError(
						fmt.Sprintf("employee %s day %d: PART requires start and end", employeeID, i), nil)
				}
				if !override.Start.Before(*override.End) {
					return apperrors.NewValidationError(
						fmt.Sprintf("employee %s day %d: start must be before end", employeeID, i), nil)
				}
			default:
				return apperrors.NewValidationError(
					fmt.Sprintf("employee %s day %d: unknown day type %q", employeeID, i, override.Type), nil)
			}
		}
	}
	return nil
}

// AssignmentDay groups one date's ledger rows.
type AssignmentDay struct {
	Date        time.Time           `json:"date"`
	Assignments []domain.Assignment `json:"assignments"`
}

// ScheduleAssignments is the per-date, per-employee view of a
// period's ledger.
type ScheduleAssignments struct {
	Period *domain.SchedulePeriod `json:"period"`
	Days   []AssignmentDay        `json:"days"`
}

// ListForSchedule returns the period's assignments grouped by date.
func (s *AssignmentService) ListForSchedule(ctx context.Context, scheduleID string, scope StoreScope) (*ScheduleAssignments, error) {
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

	rows, err := s.assignments.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	byDate := make(map[string][]domain.Assignment, 7)
	for _, row := range rows {
		key := row.WorkDate.Format("2006-01-02")
		byDate[key] = append(byDate[key], row)
	}

	result := &ScheduleAssignments{Period: period}
	for _, date := range period.Dates() {
		result.Days = append(result.Days, AssignmentDay{
			Date:        date,
			Assignments: byDate[date.Format("2006-01-02")],
		})
	}
	return result, nil
}

func (s *AssignmentService) publish(ctx context.Context, actor *domain.Employee, period *domain.SchedulePeriod, eventType events.EventType, payload any) {
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
