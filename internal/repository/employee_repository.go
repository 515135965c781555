package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
)

// EmployeeRepository encapsulates employee directory access. The
// scheduling core reads employees; only the password column is ever
// written here.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.Employee, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type employeeRepository struct {
	db Querier
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(db Querier) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, store_id, name, email, password_hash, role, employment_type, hourly_rate, section, active, created_at, updated_at`

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	emp, err := scanEmployee(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE store_id=$1 AND active ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *emp)
	}
	return result, rows.Err()
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE employees SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var emp domain.Employee
	var section *string
	if err := row.Scan(
		&emp.ID,
		&emp.StoreID,
		&emp.Name,
		&emp.Email,
		&emp.PasswordHash,
		&emp.Role,
		&emp.EmploymentType,
		&emp.HourlyRate,
		&section,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if section != nil {
		area := domain.WorkArea(*section)
		emp.Section = &area
	}
	return &emp, nil
}
