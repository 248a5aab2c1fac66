package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// IssueCategoryFilter captures list parameters.
type IssueCategoryFilter struct {
	Status         *domain.RecordStatus
	DepartmentCode *string
	Name           *string
	Search         *string
	Limit          int
	Offset         int
}

// IssueCategoryRepository manages issue-category persistence.
type IssueCategoryRepository interface {
	Create(ctx context.Context, cat *domain.IssueCategory) error
	Update(ctx context.Context, cat *domain.IssueCategory) error
	Delete(ctx context.Context, code string) error
	GetByCode(ctx context.Context, code string) (*domain.IssueCategory, error)
	GetActiveByName(ctx context.Context, name string) (*domain.IssueCategory, error)
	ExistsByName(ctx context.Context, name, excludeCode string) (bool, error)
	List(ctx context.Context, filter IssueCategoryFilter) ([]domain.IssueCategory, int64, error)
}

type issueCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewIssueCategoryRepository builds the repository.
func NewIssueCategoryRepository(pool *pgxpool.Pool) IssueCategoryRepository {
	return &issueCategoryRepository{pool: pool}
}

func (r *issueCategoryRepository) Create(ctx context.Context, cat *domain.IssueCategory) error {
	const query = `
        INSERT INTO issue_categories (issue_category_code, department_code, issue_category_name, status)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		cat.Code,
		cat.DepartmentCode,
		cat.Name,
		cat.Status,
	).Scan(&cat.CreatedAt, &cat.UpdatedAt)
}

func (r *issueCategoryRepository) Update(ctx context.Context, cat *domain.IssueCategory) error {
	const query = `
        UPDATE issue_categories SET department_code=$1, issue_category_name=$2, status=$3, updated_at=NOW()
        WHERE issue_category_code=$4`
	cmd, err := r.pool.Exec(ctx, query, cat.DepartmentCode, cat.Name, cat.Status, cat.Code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueCategoryRepository) Delete(ctx context.Context, code string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM issue_categories WHERE issue_category_code=$1`, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *issueCategoryRepository) GetByCode(ctx context.Context, code string) (*domain.IssueCategory, error) {
	const query = `
        SELECT issue_category_code, department_code, issue_category_name, status, created_at, updated_at
        FROM issue_categories WHERE issue_category_code=$1`
	return r.fetchSingle(ctx, query, code)
}

func (r *issueCategoryRepository) GetActiveByName(ctx context.Context, name string) (*domain.IssueCategory, error) {
	const query = `
        SELECT issue_category_code, department_code, issue_category_name, status, created_at, updated_at
        FROM issue_categories WHERE LOWER(issue_category_name)=LOWER($1) AND status='active'`
	return r.fetchSingle(ctx, query, name)
}

func (r *issueCategoryRepository) ExistsByName(ctx context.Context, name, excludeCode string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM issue_categories
            WHERE LOWER(issue_category_name) = LOWER($1) AND issue_category_code <> $2
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, name, excludeCode).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *issueCategoryRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.IssueCategory, error) {
	var cat domain.IssueCategory
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&cat.Code,
		&cat.DepartmentCode,
		&cat.Name,
		&cat.Status,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *issueCategoryRepository) List(ctx context.Context, filter IssueCategoryFilter) ([]domain.IssueCategory, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("c.status=$%d", len(args)))
	}
	if filter.DepartmentCode != nil {
		args = append(args, *filter.DepartmentCode)
		clauses = append(clauses, fmt.Sprintf("c.department_code=$%d", len(args)))
	}
	if filter.Name != nil {
		args = append(args, *filter.Name)
		clauses = append(clauses, fmt.Sprintf("LOWER(c.issue_category_name)=LOWER($%d)", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(c.issue_category_code) LIKE %s OR LOWER(c.issue_category_name) LIKE %s OR LOWER(d.department_name) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")
	const from = ` FROM issue_categories c JOIN departments d ON d.department_code = c.department_code WHERE `

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
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
        SELECT c.issue_category_code, c.department_code, c.issue_category_name, c.status, c.created_at, c.updated_at`+
		from+`%s ORDER BY c.issue_category_code LIMIT %d OFFSET %d`, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.IssueCategory
	for rows.Next() {
		var cat domain.IssueCategory
		if err := rows.Scan(&cat.Code, &cat.DepartmentCode, &cat.Name, &cat.Status, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, cat)
	}
	return result, total, rows.Err()
}
