package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// AssignmentRepository encapsulates the assignment ledger. Writes
// upsert on the (schedule, employee, date) natural key so
// re-assignment overwrites instead of duplicating.
type AssignmentRepository interface {
	WithTx(tx pgx.Tx) AssignmentRepository
	Upsert(ctx context.Context, assignment *domain.Assignment) error
	DeleteByKey(ctx context.Context, scheduleID, employeeID string, workDate time.Time) error
	DeleteBySchedule(ctx context.Context, scheduleID string) error
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Assignment, error)
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Assignment, error)
	ListByStoreBetween(ctx context.Context, storeID string, from, to time.Time) ([]domain.Assignment, error)
}

type assignmentRepository struct {
	db Querier
}

// NewAssignmentRepository instantiates repository.
func NewAssignmentRepository(db Querier) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) WithTx(tx pgx.Tx) AssignmentRepository {
	return &assignmentRepository{db: tx}
}

func (r *assignmentRepository) Upsert(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (schedule_id, employee_id, work_date, start_minutes, end_minutes, full_day, status, work_area, section_id, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (schedule_id, employee_id, work_date)
        DO UPDATE SET start_minutes=EXCLUDED.start_minutes, end_minutes=EXCLUDED.end_minutes,
            full_day=EXCLUDED.full_day, status=EXCLUDED.status, work_area=EXCLUDED.work_area,
            section_id=EXCLUDED.section_id, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING id, created_at, updated_at`
	var workArea *string
	if assignment.WorkArea != nil {
		s := string(*assignment.WorkArea)
		workArea = &s
	}
	return r.db.QueryRow(ctx, query,
		assignment.ScheduleID,
		assignment.EmployeeID,
		assignment.WorkDate,
		int(assignment.StartTime),
		int(assignment.EndTime),
		assignment.FullDay,
		assignment.Status,
		workArea,
		assignment.SectionID,
		assignment.UpdatedBy,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)
}

// DeleteByKey removes the row for one employee/day. Used by manual
// finalization when a day is marked off; missing rows are fine.
func (r *assignmentRepository) DeleteByKey(ctx context.Context, scheduleID, employeeID string, workDate time.Time) error {
	const query = `DELETE FROM assignments WHERE schedule_id=$1 AND employee_id=$2 AND work_date=$3`
	_, err := r.db.Exec(ctx, query, scheduleID, employeeID, workDate)
	return err
}

// DeleteBySchedule clears a period's ledger before the engine
// recomputes from scratch.
func (r *assignmentRepository) DeleteBySchedule(ctx context.Context, scheduleID string) error {
	const query = `DELETE FROM assignments WHERE schedule_id=$1`
	_, err := r.db.Exec(ctx, query, scheduleID)
	return err
}

const assignmentColumns = `id, schedule_id, employee_id, work_date, start_minutes, end_minutes, full_day, status, work_area, section_id, updated_by, created_at, updated_at`

func (r *assignmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
        FROM assignments WHERE schedule_id=$1 ORDER BY work_date, employee_id`
	return r.list(ctx, query, scheduleID)
}

func (r *assignmentRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
        FROM assignments WHERE employee_id=$1 AND work_date BETWEEN $2 AND $3
        ORDER BY work_date`
	return r.list(ctx, query, employeeID, from, to)
}

func (r *assignmentRepository) ListByStoreBetween(ctx context.Context, storeID string, from, to time.Time) ([]domain.Assignment, error) {
	query := `SELECT a.id, a.schedule_id, a.employee_id, a.work_date, a.start_minutes, a.end_minutes, a.full_day, a.status, a.work_area, a.section_id, a.updated_by, a.created_at, a.updated_at
        FROM assignments a
        JOIN employees e ON e.id = a.employee_id
        WHERE e.store_id=$1 AND a.work_date BETWEEN $2 AND $3
        ORDER BY a.employee_id, a.work_date`
	return r.list(ctx, query, storeID, from, to)
}

func (r *assignmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Assignment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func scanAssignments(rows pgx.Rows) ([]domain.Assignment, error) {
	var result []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var start, end int
		var workArea *string
		if err := rows.Scan(
			&a.ID,
			&a.ScheduleID,
			&a.EmployeeID,
			&a.WorkDate,
			&start,
			&end,
			&a.FullDay,
			&a.Status,
			&workArea,
			&a.SectionID,
			&a.UpdatedBy,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		a.StartTime = domain.TimeOfDay(start)
		a.EndTime = domain.TimeOfDay(end)
		if workArea != nil {
			area := domain.WorkArea(*workArea)
			a.WorkArea = &area
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
