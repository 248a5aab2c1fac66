package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// RoomFilter captures list parameters.
type RoomFilter struct {
	Status     *domain.RecordStatus
	Ward       *string
	Speciality *string
	RoomType   *string
	Search     *string
	Limit      int
	Offset     int
}

// RoomRepository manages room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	List(ctx context.Context, filter RoomFilter) ([]domain.Room, int64, error)
	ExistsDuplicate(ctx context.Context, room *domain.Room) (bool, error)
	SetDataEnc(ctx context.Context, id int64, dataenc string) error
	SetQRArtifact(ctx context.Context, id int64, path string) error
	UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) error
}

type roomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository builds the repository.
func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

const roomColumns = `id, bed_no, room_no, block, floor_no, ward, speciality, room_type,
               status, dataenc, qr_status, qr_path, created_at, updated_at`

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (bed_no, room_no, block, floor_no, ward, speciality, room_type, status, dataenc, qr_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		room.BedNo,
		room.RoomNo,
		room.Block,
		room.FloorNo,
		room.Ward,
		room.Speciality,
		room.RoomType,
		room.Status,
		room.DataEnc,
		room.QRStatus,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepository) Update(ctx context.Context, room *domain.Room) error {
	const query = `
        UPDATE rooms SET bed_no=$1, room_no=$2, block=$3, floor_no=$4, ward=$5, speciality=$6,
            room_type=$7, status=$8, dataenc=$9, qr_status=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		room.BedNo,
		room.RoomNo,
		room.Block,
		room.FloorNo,
		room.Ward,
		room.Speciality,
		room.RoomType,
		room.Status,
		room.DataEnc,
		room.QRStatus,
		room.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id=$1`
	var room domain.Room
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.BedNo,
		&room.RoomNo,
		&room.Block,
		&room.FloorNo,
		&room.Ward,
		&room.Speciality,
		&room.RoomType,
		&room.Status,
		&room.DataEnc,
		&room.QRStatus,
		&room.QRPath,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) ExistsDuplicate(ctx context.Context, room *domain.Room) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM rooms
            WHERE bed_no=$1 AND room_no=$2 AND block=$3 AND floor_no=$4
              AND ward=$5 AND speciality=$6 AND room_type=$7 AND id <> $8
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query,
		room.BedNo,
		room.RoomNo,
		room.Block,
		room.FloorNo,
		room.Ward,
		room.Speciality,
		room.RoomType,
		room.ID,
	).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *roomRepository) SetDataEnc(ctx context.Context, id int64, dataenc string) error {
	const query = `UPDATE rooms SET dataenc=$1, qr_status='pending', updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, dataenc, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) SetQRArtifact(ctx context.Context, id int64, path string) error {
	const query = `UPDATE rooms SET qr_path=$1, qr_status='signed', updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, path, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id int64, status domain.RecordStatus) error {
	const query = `UPDATE rooms SET status=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) List(ctx context.Context, filter RoomFilter) ([]domain.Room, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Ward != nil {
		args = append(args, *filter.Ward)
		clauses = append(clauses, fmt.Sprintf("ward=$%d", len(args)))
	}
	if filter.Speciality != nil {
		args = append(args, *filter.Speciality)
		clauses = append(clauses, fmt.Sprintf("speciality=$%d", len(args)))
	}
	if filter.RoomType != nil {
		args = append(args, *filter.RoomType)
		clauses = append(clauses, fmt.Sprintf("room_type=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(room_no) LIKE %s OR LOWER(bed_no) LIKE %s OR LOWER(block) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms WHERE `+where, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT `+roomColumns+` FROM rooms WHERE %s ORDER BY id LIMIT %d OFFSET %d`,
		where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.BedNo,
			&room.RoomNo,
			&room.Block,
			&room.FloorNo,
			&room.Ward,
			&room.Speciality,
			&room.RoomType,
			&room.Status,
			&room.DataEnc,
			&room.QRStatus,
			&room.QRPath,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, room)
	}
	return result, total, rows.Err()
}
