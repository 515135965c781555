package repository

import (
	"context"
	"time"

	"github.com/spec-kit/shift-service/internal/domain"
)

// HolidayRepository reads the holiday calendar used for day-type
// classification.
type HolidayRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error)
	Upsert(ctx context.Context, holiday *domain.Holiday) error
}

type holidayRepository struct {
	db Querier
}

// NewHolidayRepository instantiates repository.
func NewHolidayRepository(db Querier) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Holiday, error) {
	const query = `
        SELECT holiday_date, name FROM holidays
        WHERE holiday_date BETWEEN $1 AND $2 ORDER BY holiday_date`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

func (r *holidayRepository) Upsert(ctx context.Context, holiday *domain.Holiday) error {
	const query = `
        INSERT INTO holidays (holiday_date, name) VALUES ($1,$2)
        ON CONFLICT (holiday_date) DO UPDATE SET name=EXCLUDED.name`
	_, err := r.db.Exec(ctx, query, holiday.Date, holiday.Name)
	return err
}
