package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// DepartmentFilter captures list parameters.
type DepartmentFilter struct {
	Status *domain.RecordStatus
	Name   *string
	Search *string
	Limit  int
	Offset int
}

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	GetByName(ctx context.Context, name string) (*domain.Department, error)
	ExistsByName(ctx context.Context, name, excludeCode string) (bool, error)
	List(ctx context.Context, filter DepartmentFilter) ([]domain.Department, int64, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (department_code, department_name, status)
        VALUES ($1,$2,$3)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		dept.Code,
		dept.Name,
		dept.Status,
	).Scan(&dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET department_name=$1, status=$2, updated_at=NOW()
        WHERE department_code=$3`
	cmd, err := r.pool.Exec(ctx, query, dept.Name, dept.Status, dept.Code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE department_code=$1`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	const query = `
        SELECT department_code, department_name, status, created_at, updated_at
        FROM departments WHERE department_code=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&dept.Code,
		&dept.Name,
		&dept.Status,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	const query = `
        SELECT department_code, department_name, status, created_at, updated_at
        FROM departments WHERE LOWER(department_name)=LOWER($1)`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, name).Scan(
		&dept.Code,
		&dept.Name,
		&dept.Status,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) ExistsByName(ctx context.Context, name, excludeCode string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM departments
            WHERE LOWER(department_name) = LOWER($1) AND department_code <> $2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name, excludeCode).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *departmentRepository) List(ctx context.Context, filter DepartmentFilter) ([]domain.Department, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		clauses = append(clauses, fmt.Sprintf("LOWER(department_name)=LOWER($%d)", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(department_code) LIKE %s OR LOWER(department_name) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM departments WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT department_code, department_name, status, created_at, updated_at
        FROM departments WHERE %s ORDER BY department_code LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.Code, &dept.Name, &dept.Status, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, dept)
	}
	return result, total, rows.Err()
}
