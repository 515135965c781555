package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/config"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/repository"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// PayrollService derives paid hours and amounts from the assignment
// ledger. Nothing here is persisted; every read recomputes from the
// rows, so results always match the ledger.
type PayrollService struct {
	assignments repository.AssignmentRepository
	employees   repository.EmployeeRepository
	stores      repository.StoreRepository
	policies    repository.StaffingPolicyRepository
	holidays    repository.HolidayRepository
	cfg         config.PayrollConfig
}

// PayrollDependencies bundles repositories.
type PayrollDependencies struct {
	AssignmentRepo repository.AssignmentRepository
	EmployeeRepo   repository.EmployeeRepository
	StoreRepo      repository.StoreRepository
	PolicyRepo     repository.StaffingPolicyRepository
	HolidayRepo    repository.HolidayRepository
}

// NewPayrollService creates the service.
func NewPayrollService(cfg config.PayrollConfig, deps PayrollDependencies) *PayrollService {
	return &PayrollService{
		assignments: deps.AssignmentRepo,
		employees:   deps.EmployeeRepo,
		stores:      deps.StoreRepo,
		policies:    deps.PolicyRepo,
		holidays:    deps.HolidayRepo,
		cfg:         cfg,
	}
}

// ParseMonth validates a "YYYY-MM" month and returns its date range.
func ParseMonth(month string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.NewValidationError("month must be YYYY-MM", map[string]any{
			"month": month,
		})
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// ComputeForEmployee rolls one employee's month up into day, week and
// month totals. A month with no assignments yields a zero-totals
// structure, not an error.
func (s *PayrollService) ComputeForEmployee(ctx context.Context, employeeID, month string, scope StoreScope) (*domain.EmployeePayroll, error) {
	first, last, err := ParseMonth(month)
	if err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !scope.Allows(employee.StoreID) {
		return nil, apperrors.NewForbidden("employee outside caller scope")
	}

	rows, err := s.assignments.ListByEmployeeBetween(ctx, employeeID, first, last)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	spans, err := s.loadStoreSpans(ctx, employee.StoreID, first, last)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.rollUp(employee, month, rows, spans), nil
}

// ComputeForStore aggregates every employee of one store for the
// month, with a grand total for labor-cost reporting.
func (s *PayrollService) ComputeForStore(ctx context.Context, storeID, month string, scope StoreScope) (*domain.StorePayroll, error) {
	first, last, err := ParseMonth(month)
	if err != nil {
		return nil, err
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

	employees, err := s.employees.ListByStore(ctx, storeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	spans, err := s.loadStoreSpans(ctx, storeID, first, last)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := &domain.StorePayroll{StoreID: storeID, Month: month}
	for i := range employees {
		employee := &employees[i]
		rows, err := s.assignments.ListByEmployeeBetween(ctx, employee.ID, first, last)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		payroll := s.rollUp(employee, month, rows, spans)
		result.Employees = append(result.Employees, *payroll)
		result.WorkedMinutes += payroll.WorkedMinutes
		result.Pay += payroll.Pay
	}
	return result, nil
}

// storeSpans caches the store's open/close span per day type for
// FULL-day pay derivation.
type storeSpans struct {
	holidaySet map[string]bool
	spanByType map[domain.DayType]int
}

func (s *PayrollService) loadStoreSpans(ctx context.Context, storeID string, first, last time.Time) (*storeSpans, error) {
	spans := &storeSpans{
		holidaySet: make(map[string]bool),
		spanByType: make(map[domain.DayType]int),
	}
	if s.cfg.FullDaySource != config.FullDayFromStoreHours {
		return spans, nil
	}

	holidays, err := s.holidays.ListBetween(ctx, first, last)
	if err != nil {
		return nil, err
	}
	for _, h := range holidays {
		spans.holidaySet[h.Date.Format("2006-01-02")] = true
	}

	for _, dayType := range []domain.DayType{domain.DayTypeWeekday, domain.DayTypeWeekend, domain.DayTypeHoliday} {
		policy, err := s.policies.GetByStoreAndDayType(ctx, storeID, dayType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		spans.spanByType[dayType] = policy.CloseTime.Sub(policy.OpenTime)
	}
	return spans, nil
}

// shiftSpan resolves the paid span for one ledger row.
func (s *PayrollService) shiftSpan(row *domain.Assignment, spans *storeSpans) int {
	if row.FullDay && s.cfg.FullDaySource == config.FullDayFromStoreHours {
		dayType := domain.ClassifyDate(row.WorkDate, spans.holidaySet[row.WorkDate.Format("2006-01-02")])
		if span, ok := spans.spanByType[dayType]; ok {
			return span
		}
	}
	return row.SpanMinutes()
}

func (s *PayrollService) rollUp(employee *domain.Employee, month string, rows []domain.Assignment, spans *storeSpans) *domain.EmployeePayroll {
	result := &domain.EmployeePayroll{
		EmployeeID:     employee.ID,
		EmployeeName:   employee.Name,
		EmploymentType: employee.EmploymentType,
		Month:          month,
		Weeks:          []domain.PayrollWeek{},
	}

	byWeek := make(map[string][]domain.PayrollDay)
	var weekStarts []time.Time
	for i := range rows {
		row := &rows[i]
		if row.Status == domain.AssignmentStatusCancelled {
			continue
		}

		span := s.shiftSpan(row, spans)
		breakMinutes := s.cfg.BreakMinutes
		if breakMinutes > span {
			breakMinutes = span
		}
		worked := span - breakMinutes
		if worked < 0 {
			worked = 0
		}

		weekStart := mondayOf(row.WorkDate)
		key := weekStart.Format("2006-01-02")
		if _, seen := byWeek[key]; !seen {
			weekStarts = append(weekStarts, weekStart)
		}
		byWeek[key] = append(byWeek[key], domain.PayrollDay{
			Date:          row.WorkDate,
			WorkedMinutes: worked,
			BreakMinutes:  breakMinutes,
			HourlyRate:    employee.HourlyRate,
		})
	}

	sort.Slice(weekStarts, func(i, j int) bool { return weekStarts[i].Before(weekStarts[j]) })

	for _, weekStart := range weekStarts {
		days := byWeek[weekStart.Format("2006-01-02")]
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })

		week := domain.PayrollWeek{WeekStart: weekStart}
		weeklyBase := 0
		for i := range days {
			day := &days[i]

			overtime := 0
			if day.WorkedMinutes > s.cfg.DailyOvertimeThreshold {
				overtime = day.WorkedMinutes - s.cfg.DailyOvertimeThreshold
			}
			base := day.WorkedMinutes - overtime

			// minutes beyond the weekly threshold also become overtime,
			// attributed to the day that crosses it
			if weeklyBase+base > s.cfg.WeeklyOvertimeThreshold {
				weeklyOvertime := weeklyBase + base - s.cfg.WeeklyOvertimeThreshold
				if weeklyOvertime > base {
					weeklyOvertime = base
				}
				base -= weeklyOvertime
				overtime += weeklyOvertime
			}
			weeklyBase += base

			day.OvertimeMinutes = overtime
			rate := day.HourlyRate / 60.0
			day.Pay = float64(base)*rate + float64(overtime)*rate*s.cfg.OvertimeMultiplier

			week.WorkedMinutes += day.WorkedMinutes
			week.OvertimeMinutes += overtime
			week.Pay += day.Pay
		}
		week.Days = days
		result.Weeks = append(result.Weeks, week)
		result.WorkedMinutes += week.WorkedMinutes
		result.OvertimeMinutes += week.OvertimeMinutes
		result.Pay += week.Pay
	}
	return result
}

// mondayOf returns the Monday starting the ISO week containing date.
func mondayOf(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}
