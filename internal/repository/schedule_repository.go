package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// ScheduleRepository encapsulates schedule period persistence.
// GetForUpdate locks the period row for the duration of the enclosing
// transaction so concurrent mutations of one period serialize.
type ScheduleRepository interface {
	WithTx(tx pgx.Tx) ScheduleRepository
	Create(ctx context.Context, period *domain.SchedulePeriod) error
	GetByID(ctx context.Context, id string) (*domain.SchedulePeriod, error)
	GetForUpdate(ctx context.Context, id string) (*domain.SchedulePeriod, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]domain.SchedulePeriod, error)
	UpdateStatus(ctx context.Context, id string, status domain.ScheduleStatus) error
	Delete(ctx context.Context, id string) error
}

type scheduleRepository struct {
	db Querier
}

// NewScheduleRepository instantiates repository.
func NewScheduleRepository(db Querier) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) WithTx(tx pgx.Tx) ScheduleRepository {
	return &scheduleRepository{db: tx}
}

func (r *scheduleRepository) Create(ctx context.Context, period *domain.SchedulePeriod) error {
	const query = `
        INSERT INTO schedule_periods (store_id, week_start, week_end, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		period.StoreID,
		period.WeekStart,
		period.WeekEnd,
		period.Status,
	).Scan(&period.ID, &period.CreatedAt, &period.UpdatedAt)
}

const schedulePeriodColumns = `id, store_id, week_start, week_end, status, created_at, updated_at`

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.SchedulePeriod, error) {
	query := `SELECT ` + schedulePeriodColumns + ` FROM schedule_periods WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *scheduleRepository) GetForUpdate(ctx context.Context, id string) (*domain.SchedulePeriod, error) {
	query := `SELECT ` + schedulePeriodColumns + ` FROM schedule_periods WHERE id=$1 FOR UPDATE`
	return r.fetchSingle(ctx, query, id)
}

func (r *scheduleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.SchedulePeriod, error) {
	var period domain.SchedulePeriod
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&period.ID,
		&period.StoreID,
		&period.WeekStart,
		&period.WeekEnd,
		&period.Status,
		&period.CreatedAt,
		&period.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *scheduleRepository) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]domain.SchedulePeriod, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + schedulePeriodColumns + `
        FROM schedule_periods WHERE store_id=$1
        ORDER BY week_start DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SchedulePeriod
	for rows.Next() {
		var period domain.SchedulePeriod
		if err := rows.Scan(
			&period.ID,
			&period.StoreID,
			&period.WeekStart,
			&period.WeekEnd,
			&period.Status,
			&period.CreatedAt,
			&period.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, period)
	}
	return result, rows.Err()
}

func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, status domain.ScheduleStatus) error {
	const query = `UPDATE schedule_periods SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a period; availability and assignment rows cascade.
func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_periods WHERE id=$1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
