package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/events"
	"github.com/spec-kit/shift-service/internal/repository"
)

// fakeTxRunner runs the function directly. The fakes below are plain
// in-memory maps, so there is nothing to commit or roll back.
type fakeTxRunner struct{}

func (fakeTxRunner) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeScheduleRepo struct {
	periods map[string]*domain.SchedulePeriod
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{periods: make(map[string]*domain.SchedulePeriod)}
}

func (f *fakeScheduleRepo) WithTx(pgx.Tx) repository.ScheduleRepository { return f }

func (f *fakeScheduleRepo) Create(_ context.Context, period *domain.SchedulePeriod) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	cp := *period
	f.periods[period.ID] = &cp
	return nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id string) (*domain.SchedulePeriod, error) {
	period, ok := f.periods[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *period
	return &cp, nil
}

func (f *fakeScheduleRepo) GetForUpdate(ctx context.Context, id string) (*domain.SchedulePeriod, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeScheduleRepo) ListByStore(_ context.Context, storeID string, limit, offset int) ([]domain.SchedulePeriod, error) {
	var out []domain.SchedulePeriod
	for _, p := range f.periods {
		if p.StoreID == storeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[j].WeekStart.Before(out[i].WeekStart) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateStatus(_ context.Context, id string, status domain.ScheduleStatus) error {
	period, ok := f.periods[id]
	if !ok {
		return pgx.ErrNoRows
	}
	period.Status = status
	return nil
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.periods[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.periods, id)
	return nil
}

type fakeAvailabilityRepo struct {
	entries map[string]*domain.AvailabilityEntry
	nextSeq int64
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{entries: make(map[string]*domain.AvailabilityEntry)}
}

func availabilityKey(scheduleID, employeeID string) string {
	return scheduleID + "|" + employeeID
}

func (f *fakeAvailabilityRepo) WithTx(pgx.Tx) repository.AvailabilityRepository { return f }

func (f *fakeAvailabilityRepo) Upsert(_ context.Context, entry *domain.AvailabilityEntry) error {
	key := availabilityKey(entry.ScheduleID, entry.EmployeeID)
	if existing, ok := f.entries[key]; ok {
		// resubmission keeps the original submission order
		entry.ID = existing.ID
		entry.SubmittedSeq = existing.SubmittedSeq
	} else {
		f.nextSeq++
		entry.ID = uuid.NewString()
		entry.SubmittedSeq = f.nextSeq
	}
	cp := *entry
	f.entries[key] = &cp
	return nil
}

func (f *fakeAvailabilityRepo) GetByScheduleAndEmployee(_ context.Context, scheduleID, employeeID string) (*domain.AvailabilityEntry, error) {
	entry, ok := f.entries[availabilityKey(scheduleID, employeeID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *entry
	return &cp, nil
}

func (f *fakeAvailabilityRepo) ListBySchedule(_ context.Context, scheduleID string) ([]domain.AvailabilityEntry, error) {
	var out []domain.AvailabilityEntry
	for _, entry := range f.entries {
		if entry.ScheduleID == scheduleID {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedSeq < out[j].SubmittedSeq })
	return out, nil
}

type fakeAssignmentRepo struct {
	rows           map[string]*domain.Assignment
	employeeStores map[string]string
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		rows:           make(map[string]*domain.Assignment),
		employeeStores: make(map[string]string),
	}
}

func assignmentKey(scheduleID, employeeID string, workDate time.Time) string {
	return scheduleID + "|" + employeeID + "|" + workDate.Format("2006-01-02")
}

func (f *fakeAssignmentRepo) WithTx(pgx.Tx) repository.AssignmentRepository { return f }

func (f *fakeAssignmentRepo) Upsert(_ context.Context, assignment *domain.Assignment) error {
	key := assignmentKey(assignment.ScheduleID, assignment.EmployeeID, assignment.WorkDate)
	if existing, ok := f.rows[key]; ok {
		assignment.ID = existing.ID
	} else if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	cp := *assignment
	f.rows[key] = &cp
	return nil
}

func (f *fakeAssignmentRepo) DeleteByKey(_ context.Context, scheduleID, employeeID string, workDate time.Time) error {
	delete(f.rows, assignmentKey(scheduleID, employeeID, workDate))
	return nil
}

func (f *fakeAssignmentRepo) DeleteBySchedule(_ context.Context, scheduleID string) error {
	for key, row := range f.rows {
		if row.ScheduleID == scheduleID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) ListBySchedule(_ context.Context, scheduleID string) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, row := range f.rows {
		if row.ScheduleID == scheduleID {
			out = append(out, *row)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (f *fakeAssignmentRepo) ListByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, row := range f.rows {
		if row.EmployeeID == employeeID && !row.WorkDate.Before(from) && !row.WorkDate.After(to) {
			out = append(out, *row)
		}
	}
	sortAssignments(out)
	return out, nil
}

func (f *fakeAssignmentRepo) ListByStoreBetween(_ context.Context, storeID string, from, to time.Time) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, row := range f.rows {
		if f.employeeStores[row.EmployeeID] == storeID && !row.WorkDate.Before(from) && !row.WorkDate.After(to) {
			out = append(out, *row)
		}
	}
	sortAssignments(out)
	return out, nil
}

func sortAssignments(rows []domain.Assignment) {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].WorkDate.Equal(rows[j].WorkDate) {
			return rows[i].WorkDate.Before(rows[j].WorkDate)
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
}

type fakePolicyRepo struct {
	policies map[string]*domain.StaffingPolicy
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: make(map[string]*domain.StaffingPolicy)}
}

func policyKey(storeID string, dayType domain.DayType) string {
	return storeID + "|" + string(dayType)
}

func (f *fakePolicyRepo) Upsert(_ context.Context, policy *domain.StaffingPolicy) error {
	if policy.ID == "" {
		policy.ID = uuid.NewString()
	}
	cp := *policy
	f.policies[policyKey(policy.StoreID, policy.DayType)] = &cp
	return nil
}

func (f *fakePolicyRepo) GetByStoreAndDayType(_ context.Context, storeID string, dayType domain.DayType) (*domain.StaffingPolicy, error) {
	policy, ok := f.policies[policyKey(storeID, dayType)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *policy
	return &cp, nil
}

func (f *fakePolicyRepo) ListByStore(_ context.Context, storeID string) ([]domain.StaffingPolicy, error) {
	var out []domain.StaffingPolicy
	for _, policy := range f.policies {
		if policy.StoreID == storeID {
			out = append(out, *policy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayType < out[j].DayType })
	return out, nil
}

type fakeHolidayRepo struct {
	holidays []domain.Holiday
}

func (f *fakeHolidayRepo) ListBetween(_ context.Context, from, to time.Time) ([]domain.Holiday, error) {
	var out []domain.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHolidayRepo) Upsert(_ context.Context, holiday *domain.Holiday) error {
	f.holidays = append(f.holidays, *holiday)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]*domain.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]*domain.Employee)}
}

func (f *fakeEmployeeRepo) add(employee *domain.Employee) {
	cp := *employee
	f.employees[employee.ID] = &cp
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *employee
	return &cp, nil
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for _, employee := range f.employees {
		if employee.Email == email {
			cp := *employee
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) ListByStore(_ context.Context, storeID string) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, employee := range f.employees {
		if employee.StoreID == storeID {
			out = append(out, *employee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEmployeeRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	employee, ok := f.employees[id]
	if !ok {
		return pgx.ErrNoRows
	}
	employee.PasswordHash = passwordHash
	return nil
}

type fakeStoreRepo struct {
	stores map[string]*domain.Store
}

func newFakeStoreRepo(ids ...string) *fakeStoreRepo {
	f := &fakeStoreRepo{stores: make(map[string]*domain.Store)}
	for _, id := range ids {
		f.stores[id] = &domain.Store{ID: id, Name: id}
	}
	return f
}

func (f *fakeStoreRepo) GetByID(_ context.Context, id string) (*domain.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *store
	return &cp, nil
}

func (f *fakeStoreRepo) List(_ context.Context) ([]domain.Store, error) {
	var out []domain.Store
	for _, store := range f.stores {
		out = append(out, *store)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// test data helpers

func mustDate(t string) time.Time {
	parsed, err := time.Parse("2006-01-02", t)
	if err != nil {
		panic(err)
	}
	return parsed
}

func tod(s string) domain.TimeOfDay {
	parsed, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return parsed
}

func todPtr(s string) *domain.TimeOfDay {
	t := tod(s)
	return &t
}

func fullDay() domain.DayAvailability {
	return domain.DayAvailability{Type: domain.AvailabilityFull}
}

func offDay() domain.DayAvailability {
	return domain.DayAvailability{Type: domain.AvailabilityOff}
}

func partDay(start, end string) domain.DayAvailability {
	return domain.DayAvailability{Type: domain.AvailabilityPart, Start: todPtr(start), End: todPtr(end)}
}

func fullWeek() domain.WeekAvailability {
	var week domain.WeekAvailability
	for i := range week {
		week[i] = fullDay()
	}
	return week
}

func sameWeek(day domain.DayAvailability) domain.WeekAvailability {
	var week domain.WeekAvailability
	for i := range week {
		week[i] = day
	}
	return week
}
