package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// AvailabilityRepository encapsulates availability submissions. A
// resubmission replaces the day map atomically via upsert on the
// (schedule, employee) natural key; submitted_seq is kept from the
// first submission so engine ordering stays stable.
type AvailabilityRepository interface {
	WithTx(tx pgx.Tx) AvailabilityRepository
	Upsert(ctx context.Context, entry *domain.AvailabilityEntry) error
	GetByScheduleAndEmployee(ctx context.Context, scheduleID, employeeID string) (*domain.AvailabilityEntry, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]domain.AvailabilityEntry, error)
}

type availabilityRepository struct {
	db Querier
}

// NewAvailabilityRepository instantiates repository.
func NewAvailabilityRepository(db Querier) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) WithTx(tx pgx.Tx) AvailabilityRepository {
	return &availabilityRepository{db: tx}
}

func (r *availabilityRepository) Upsert(ctx context.Context, entry *domain.AvailabilityEntry) error {
	days, err := json.Marshal(entry.Days)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO availability_entries (schedule_id, employee_id, days)
        VALUES ($1,$2,$3)
        ON CONFLICT (schedule_id, employee_id)
        DO UPDATE SET days=EXCLUDED.days, updated_at=NOW()
        RETURNING id, submitted_seq, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		entry.ScheduleID,
		entry.EmployeeID,
		days,
	).Scan(&entry.ID, &entry.SubmittedSeq, &entry.CreatedAt, &entry.UpdatedAt)
}

const availabilityColumns = `id, schedule_id, employee_id, days, submitted_seq, created_at, updated_at`

func (r *availabilityRepository) GetByScheduleAndEmployee(ctx context.Context, scheduleID, employeeID string) (*domain.AvailabilityEntry, error) {
	query := `SELECT ` + availabilityColumns + `
        FROM availability_entries WHERE schedule_id=$1 AND employee_id=$2`
	entry, err := scanAvailability(r.db.QueryRow(ctx, query, scheduleID, employeeID))
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListBySchedule returns entries in submission order, which is the
// engine's first-submitted-first-served candidate order.
func (r *availabilityRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.AvailabilityEntry, error) {
	query := `SELECT ` + availabilityColumns + `
        FROM availability_entries WHERE schedule_id=$1 ORDER BY submitted_seq`
	rows, err := r.db.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AvailabilityEntry
	for rows.Next() {
		entry, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}
	return result, rows.Err()
}

func scanAvailability(row pgx.Row) (*domain.AvailabilityEntry, error) {
	var entry domain.AvailabilityEntry
	var days []byte
	if err := row.Scan(
		&entry.ID,
		&entry.ScheduleID,
		&entry.EmployeeID,
		&days,
		&entry.SubmittedSeq,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(days, &entry.Days); err != nil {
		return nil, err
	}
	return &entry, nil
}
