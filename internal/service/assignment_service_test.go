package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/shift-service/internal/config"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/events"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

type engineFixture struct {
	schedules    *fakeScheduleRepo
	availability *fakeAvailabilityRepo
	assignments  *fakeAssignmentRepo
	policies     *fakePolicyRepo
	holidays     *fakeHolidayRepo
	dispatcher   *fakeDispatcher
	service      *AssignmentService
	period       *domain.SchedulePeriod
	manager      *domain.Employee
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		schedules:    newFakeScheduleRepo(),
		availability: newFakeAvailabilityRepo(),
		assignments:  newFakeAssignmentRepo(),
		policies:     newFakePolicyRepo(),
		holidays:     &fakeHolidayRepo{},
		dispatcher:   &fakeDispatcher{},
	}

	svc, err := NewAssignmentService(config.SchedulingConfig{
		DefaultLunchHeadcount:  2,
		DefaultDinnerHeadcount: 2,
		DefaultOpenTime:        "10:00",
		DefaultCloseTime:       "22:00",
	}, AssignmentDependencies{
		ScheduleRepo:     f.schedules,
		AvailabilityRepo: f.availability,
		AssignmentRepo:   f.assignments,
		PolicyRepo:       f.policies,
		HolidayRepo:      f.holidays,
		TxRunner:         fakeTxRunner{},
		Dispatcher:       f.dispatcher,
	})
	require.NoError(t, err)
	f.service = svc

	f.period = &domain.SchedulePeriod{
		ID:        "sched-1",
		StoreID:   "store-1",
		WeekStart: mustDate("2026-01-05"), // Monday
		WeekEnd:   mustDate("2026-01-11"),
		Status:    domain.ScheduleStatusOpen,
	}
	require.NoError(t, f.schedules.Create(context.Background(), f.period))

	f.manager = &domain.Employee{
		ID:      "mgr-1",
		StoreID: "store-1",
		Role:    domain.EmployeeRoleManager,
	}
	return f
}

func (f *engineFixture) scope() StoreScope {
	return ScopeForEmployee(f.manager)
}

func (f *engineFixture) submit(t *testing.T, employeeID string, week domain.WeekAvailability) {
	t.Helper()
	require.NoError(t, f.availability.Upsert(context.Background(), &domain.AvailabilityEntry{
		ScheduleID: f.period.ID,
		EmployeeID: employeeID,
		Days:       week,
	}))
}

func (f *engineFixture) setPolicy(t *testing.T, dayType domain.DayType, lunch, dinner int, open, close string) {
	t.Helper()
	require.NoError(t, f.policies.Upsert(context.Background(), &domain.StaffingPolicy{
		StoreID:         "store-1",
		DayType:         dayType,
		OpenTime:        tod(open),
		CloseTime:       tod(close),
		BreakStart:      tod("14:00"),
		BreakEnd:        tod("15:00"),
		LunchHeadcount:  lunch,
		DinnerHeadcount: dinner,
	}))
}

func TestAutoAssign_FillsSessionsInSubmissionOrder(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 2, 3, "10:00", "22:00")

	for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		f.submit(t, id, fullWeek())
	}

	result, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusAssigned, result.Status)
	require.Len(t, result.Days, 7)

	// weekdays use the policy row, weekends fall back to defaults
	monday := result.Days[0]
	assert.Equal(t, domain.DayTypeWeekday, monday.DayType)
	assert.Equal(t, SessionFill{Required: 2, Filled: 2}, monday.Lunch)
	assert.Equal(t, SessionFill{Required: 3, Filled: 3}, monday.Dinner)

	saturday := result.Days[5]
	assert.Equal(t, domain.DayTypeWeekend, saturday.DayType)
	assert.Equal(t, SessionFill{Required: 2, Filled: 2}, saturday.Lunch)
	assert.Equal(t, SessionFill{Required: 2, Filled: 2}, saturday.Dinner)

	// 3 picks per weekday, 2 per weekend day, one row per employee/date
	assert.Equal(t, 5*3+2*2, result.Assigned)

	rows, err := f.assignments.ListBySchedule(context.Background(), "sched-1")
	require.NoError(t, err)
	require.Len(t, rows, result.Assigned)
	seen := map[string]bool{}
	for _, row := range rows {
		key := row.EmployeeID + "|" + row.WorkDate.Format("2006-01-02")
		assert.False(t, seen[key], "duplicate assignment for %s", key)
		seen[key] = true
		assert.Equal(t, tod("10:00"), row.StartTime)
		assert.Equal(t, tod("22:00"), row.EndTime)
		assert.True(t, row.FullDay)
		assert.Equal(t, domain.AssignmentStatusAssigned, row.Status)
	}

	// earliest submitters win
	mondayRows, err := f.assignments.ListByEmployeeBetween(context.Background(), "e1", mustDate("2026-01-05"), mustDate("2026-01-05"))
	require.NoError(t, err)
	assert.Len(t, mondayRows, 1)
	skipped, err := f.assignments.ListByEmployeeBetween(context.Background(), "e4", mustDate("2026-01-05"), mustDate("2026-01-11"))
	require.NoError(t, err)
	assert.Empty(t, skipped)

	period, err := f.schedules.GetByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusAssigned, period.Status)

	published := f.dispatcher.published(events.EventScheduleAssigned)
	require.Len(t, published, 1)
	payload := published[0].Payload.(events.ScheduleAssignedPayload)
	assert.False(t, payload.Understaffed)
}

func TestAutoAssign_PartTimeWindowsGateSessions(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 1, 1, "10:00", "22:00")
	f.setPolicy(t, domain.DayTypeWeekend, 0, 0, "10:00", "22:00")

	// lunch only: starts before the lunch cutoff, ends before dinner
	f.submit(t, "lunch-only", sameWeek(partDay("10:00", "14:00")))
	// dinner only: starts after the lunch cutoff
	f.submit(t, "dinner-only", sameWeek(partDay("17:00", "22:00")))
	f.submit(t, "off-all-week", sameWeek(offDay()))

	result, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	monday := result.Days[0]
	assert.Equal(t, SessionFill{Required: 1, Filled: 1}, monday.Lunch)
	assert.Equal(t, SessionFill{Required: 1, Filled: 1}, monday.Dinner)

	rows, err := f.assignments.ListByEmployeeBetween(context.Background(), "lunch-only", mustDate("2026-01-05"), mustDate("2026-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tod("10:00"), rows[0].StartTime)
	assert.Equal(t, tod("14:00"), rows[0].EndTime)
	assert.False(t, rows[0].FullDay)

	rows, err = f.assignments.ListByEmployeeBetween(context.Background(), "dinner-only", mustDate("2026-01-05"), mustDate("2026-01-05"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tod("17:00"), rows[0].StartTime)

	rows, err = f.assignments.ListByEmployeeBetween(context.Background(), "off-all-week", mustDate("2026-01-05"), mustDate("2026-01-11"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAutoAssign_BoundaryTimesAreEligible(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 1, 1, "10:00", "22:00")

	// exactly on both cutoffs: 15:00 start is still lunch, 17:00 end is still dinner
	f.submit(t, "edge", sameWeek(partDay("15:00", "17:00")))

	result, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Days[0].Lunch.Filled)
	assert.Equal(t, 1, result.Days[0].Dinner.Filled)
}

func TestAutoAssign_UnderstaffingIsReportedNotFailed(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 2, 3, "10:00", "22:00")

	f.submit(t, "only-one", fullWeek())

	result, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	monday := result.Days[0]
	assert.Equal(t, SessionFill{Required: 2, Filled: 1}, monday.Lunch)
	assert.Equal(t, SessionFill{Required: 3, Filled: 1}, monday.Dinner)
	assert.Equal(t, domain.ScheduleStatusAssigned, result.Status)

	published := f.dispatcher.published(events.EventScheduleAssigned)
	require.Len(t, published, 1)
	assert.True(t, published[0].Payload.(events.ScheduleAssignedPayload).Understaffed)
}

func TestAutoAssign_HolidayUsesHolidayPolicy(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 1, 1, "10:00", "22:00")
	f.setPolicy(t, domain.DayTypeHoliday, 4, 4, "11:00", "20:00")
	f.holidays.holidays = append(f.holidays.holidays, domain.Holiday{
		Date: mustDate("2026-01-07"), // the Wednesday
		Name: "Founders Day",
	})

	f.submit(t, "e1", fullWeek())

	result, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	wednesday := result.Days[2]
	assert.Equal(t, domain.DayTypeHoliday, wednesday.DayType)
	assert.Equal(t, 4, wednesday.Lunch.Required)

	rows, err := f.assignments.ListByEmployeeBetween(context.Background(), "e1", mustDate("2026-01-07"), mustDate("2026-01-07"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, tod("11:00"), rows[0].StartTime)
	assert.Equal(t, tod("20:00"), rows[0].EndTime)
}

func TestAutoAssign_ResubmissionKeepsOriginalOrder(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 1, 0, "10:00", "22:00")
	f.setPolicy(t, domain.DayTypeWeekend, 0, 0, "10:00", "22:00")

	f.submit(t, "first", fullWeek())
	f.submit(t, "second", fullWeek())
	// resubmitting must not push "first" behind "second"
	f.submit(t, "first", fullWeek())

	_, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	rows, err := f.assignments.ListByEmployeeBetween(context.Background(), "first", mustDate("2026-01-05"), mustDate("2026-01-09"))
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	rows, err = f.assignments.ListByEmployeeBetween(context.Background(), "second", mustDate("2026-01-05"), mustDate("2026-01-09"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAutoAssign_RejectsNonOpenPeriod(t *testing.T) {
	f := newEngineFixture(t)
	f.submit(t, "e1", fullWeek())

	_, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	// second run hits the now-ASSIGNED period
	_, err = f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestAutoAssign_UnknownScheduleNotFound(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.service.AutoAssign(context.Background(), f.manager, "missing", f.scope())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAutoAssign_OtherStoreForbidden(t *testing.T) {
	f := newEngineFixture(t)
	outsider := &domain.Employee{ID: "mgr-2", StoreID: "store-2", Role: domain.EmployeeRoleManager}
	_, err := f.service.AutoAssign(context.Background(), outsider, "sched-1", ScopeForEmployee(outsider))
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestFinalize_WritesOverridesAndRemovesOffDays(t *testing.T) {
	f := newEngineFixture(t)
	f.setPolicy(t, domain.DayTypeWeekday, 1, 1, "09:00", "21:00")

	// engine first, then a manual correction on top
	f.submit(t, "e1", fullWeek())
	_, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	input := FinalizeInput{
		"e1": [7]DayOverride{
			{Type: domain.AvailabilityPart, Start: todPtr("12:00"), End: todPtr("18:00")},
			{Type: domain.AvailabilityFull},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
		},
	}
	period, err := f.service.Finalize(context.Background(), f.manager, "sched-1", input, f.scope())
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusAssigned, period.Status)

	rows, err := f.assignments.ListByEmployeeBetween(context.Background(), "e1", mustDate("2026-01-05"), mustDate("2026-01-11"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, mustDate("2026-01-05"), rows[0].WorkDate)
	assert.Equal(t, tod("12:00"), rows[0].StartTime)
	assert.Equal(t, tod("18:00"), rows[0].EndTime)
	assert.False(t, rows[0].FullDay)
	require.NotNil(t, rows[0].UpdatedBy)
	assert.Equal(t, "mgr-1", *rows[0].UpdatedBy)

	// FULL override takes the store's weekday hours
	assert.Equal(t, mustDate("2026-01-06"), rows[1].WorkDate)
	assert.Equal(t, tod("09:00"), rows[1].StartTime)
	assert.Equal(t, tod("21:00"), rows[1].EndTime)
	assert.True(t, rows[1].FullDay)

	published := f.dispatcher.published(events.EventAssignmentsFinalized)
	require.Len(t, published, 1)
}

func TestFinalize_OpenPeriodBecomesAssigned(t *testing.T) {
	f := newEngineFixture(t)
	input := FinalizeInput{
		"e1": [7]DayOverride{
			{Type: domain.AvailabilityFull},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
			{Type: domain.AvailabilityOff},
		},
	}
	period, err := f.service.Finalize(context.Background(), f.manager, "sched-1", input, f.scope())
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusAssigned, period.Status)

	stored, err := f.schedules.GetByID(context.Background(), "sched-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStatusAssigned, stored.Status)
}

func TestFinalize_ClosedPeriodConflicts(t *testing.T) {
	f := newEngineFixture(t)
	require.NoError(t, f.schedules.UpdateStatus(context.Background(), "sched-1", domain.ScheduleStatusClosed))

	input := FinalizeInput{"e1": [7]DayOverride{
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
		{Type: domain.AvailabilityOff},
	}}
	_, err := f.service.Finalize(context.Background(), f.manager, "sched-1", input, f.scope())
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestFinalize_ValidatesPartOverrides(t *testing.T) {
	f := newEngineFixture(t)

	missingTimes := FinalizeInput{"e1": [7]DayOverride{
		{Type: domain.AvailabilityPart},
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
	}}
	_, err := f.service.Finalize(context.Background(), f.manager, "sched-1", missingTimes, f.scope())
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	inverted := FinalizeInput{"e1": [7]DayOverride{
		{Type: domain.AvailabilityPart, Start: todPtr("18:00"), End: todPtr("12:00")},
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
		{Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff}, {Type: domain.AvailabilityOff},
	}}
	_, err = f.service.Finalize(context.Background(), f.manager, "sched-1", inverted, f.scope())
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestListForSchedule_GroupsByDate(t *testing.T) {
	f := newEngineFixture(t)
	f.submit(t, "e1", fullWeek())
	f.submit(t, "e2", fullWeek())

	_, err := f.service.AutoAssign(context.Background(), f.manager, "sched-1", f.scope())
	require.NoError(t, err)

	result, err := f.service.ListForSchedule(context.Background(), "sched-1", f.scope())
	require.NoError(t, err)
	require.Len(t, result.Days, 7)
	assert.Equal(t, mustDate("2026-01-05"), result.Days[0].Date)
	assert.Len(t, result.Days[0].Assignments, 2)
}
