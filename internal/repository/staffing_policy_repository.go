package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// StaffingPolicyRepository encapsulates per-store staffing targets.
type StaffingPolicyRepository interface {
	Upsert(ctx context.Context, policy *domain.StaffingPolicy) error
	GetByStoreAndDayType(ctx context.Context, storeID string, dayType domain.DayType) (*domain.StaffingPolicy, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.StaffingPolicy, error)
}

type staffingPolicyRepository struct {
	db Querier
}

// NewStaffingPolicyRepository instantiates repository.
func NewStaffingPolicyRepository(db Querier) StaffingPolicyRepository {
	return &staffingPolicyRepository{db: db}
}

func (r *staffingPolicyRepository) Upsert(ctx context.Context, policy *domain.StaffingPolicy) error {
	const query = `
        INSERT INTO staffing_policies (store_id, day_type, open_minutes, close_minutes, break_start, break_end, lunch_headcount, dinner_headcount)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (store_id, day_type)
        DO UPDATE SET open_minutes=EXCLUDED.open_minutes, close_minutes=EXCLUDED.close_minutes,
            break_start=EXCLUDED.break_start, break_end=EXCLUDED.break_end,
            lunch_headcount=EXCLUDED.lunch_headcount, dinner_headcount=EXCLUDED.dinner_headcount,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		policy.StoreID,
		policy.DayType,
		int(policy.OpenTime),
		int(policy.CloseTime),
		int(policy.BreakStart),
		int(policy.BreakEnd),
		policy.LunchHeadcount,
		policy.DinnerHeadcount,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)
}

const staffingPolicyColumns = `id, store_id, day_type, open_minutes, close_minutes, break_start, break_end, lunch_headcount, dinner_headcount, created_at, updated_at`

func (r *staffingPolicyRepository) GetByStoreAndDayType(ctx context.Context, storeID string, dayType domain.DayType) (*domain.StaffingPolicy, error) {
	query := `SELECT ` + staffingPolicyColumns + `
        FROM staffing_policies WHERE store_id=$1 AND day_type=$2`
	policy, err := scanStaffingPolicy(r.db.QueryRow(ctx, query, storeID, dayType))
	if err != nil {
		return nil, err
	}
	return policy, nil
}

func (r *staffingPolicyRepository) ListByStore(ctx context.Context, storeID string) ([]domain.StaffingPolicy, error) {
	query := `SELECT ` + staffingPolicyColumns + `
        FROM staffing_policies WHERE store_id=$1 ORDER BY day_type`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffingPolicy
	for rows.Next() {
		policy, err := scanStaffingPolicy(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *policy)
	}
	return result, rows.Err()
}

func scanStaffingPolicy(row pgx.Row) (*domain.StaffingPolicy, error) {
	var policy domain.StaffingPolicy
	var open, close, breakStart, breakEnd int
	if err := row.Scan(
		&policy.ID,
		&policy.StoreID,
		&policy.DayType,
		&open,
		&close,
		&breakStart,
		&breakEnd,
		&policy.LunchHeadcount,
		&policy.DinnerHeadcount,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	policy.OpenTime = domain.TimeOfDay(open)
	policy.CloseTime = domain.TimeOfDay(close)
	policy.BreakStart = domain.TimeOfDay(breakStart)
	policy.BreakEnd = domain.TimeOfDay(breakEnd)
	return &policy, nil
}
