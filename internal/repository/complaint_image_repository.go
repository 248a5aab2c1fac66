package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// ComplaintImageRepository manages image rows owned by complaints. Rows are
// removed by the ticket's cascade, so no standalone delete exists.
type ComplaintImageRepository interface {
	Create(ctx context.Context, image *domain.ComplaintImage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ComplaintImage, error)
}

type complaintImageRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintImageRepository builds the repository.
func NewComplaintImageRepository(pool *pgxpool.Pool) ComplaintImageRepository {
	return &complaintImageRepository{pool: pool}
}

func (r *complaintImageRepository) Create(ctx context.Context, image *domain.ComplaintImage) error {
	const query = `
        INSERT INTO complaint_images (ticket_id, image_path)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, image.TicketID, image.ImagePath).
		Scan(&image.ID, &image.CreatedAt)
}

func (r *complaintImageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ComplaintImage, error) {
	const query = `
        SELECT id, ticket_id, image_path, created_at
        FROM complaint_images WHERE ticket_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaintImages(rows)
}

func scanComplaintImages(rows pgx.Rows) ([]domain.ComplaintImage, error) {
	var result []domain.ComplaintImage
	for rows.Next() {
		var image domain.ComplaintImage
		if err := rows.Scan(&image.ID, &image.TicketID, &image.ImagePath, &image.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, image)
	}
	return result, rows.Err()
}
