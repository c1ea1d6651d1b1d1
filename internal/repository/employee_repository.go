package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shukladev7/escalation-tracker/internal/domain"
)

// EmployeeRepository encapsulates directory persistence.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	ListByRole(ctx context.Context, role string) ([]domain.Employee, error)
	FindHOD(ctx context.Context, department string) (*domain.Employee, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `id, name, email, role, department, active, password_hash, created_at, updated_at`

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, email, role, department, active, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		emp.ID,
		emp.Name,
		emp.Email,
		emp.Role,
		emp.Department,
		emp.Active,
		emp.PasswordHash,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

// List returns the directory ordered by display name.
func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY name`
	return r.fetchMany(ctx, query)
}

func (r *employeeRepository) ListByRole(ctx context.Context, role string) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE role=$1 ORDER BY name`
	return r.fetchMany(ctx, query, role)
}

// FindHOD returns the first active employee with role HOD in the department.
// Ties are broken by creation order.
func (r *employeeRepository) FindHOD(ctx context.Context, department string) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
        WHERE role=$1 AND department=$2 AND active
        ORDER BY created_at LIMIT 1`
	return r.fetchSingle(ctx, query, domain.RoleHOD, department)
}

func (r *employeeRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const query = `UPDATE employees SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE employees SET active=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM employees WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Employee, error) {
	var emp domain.Employee
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&emp.ID,
		&emp.Name,
		&emp.Email,
		&emp.Role,
		&emp.Department,
		&emp.Active,
		&emp.PasswordHash,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(
			&emp.ID,
			&emp.Name,
			&emp.Email,
			&emp.Role,
			&emp.Department,
			&emp.Active,
			&emp.PasswordHash,
			&emp.CreatedAt,
			&emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, emp)
	}
	return result, rows.Err()
}
