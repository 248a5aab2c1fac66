package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/qr"
	"github.com/svn-hms/complaint-service/internal/repository"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// QREnqueuer schedules asynchronous QR image rendering for a room.
type QREnqueuer interface {
	Enqueue(ctx context.Context, roomID int64) error
}

// RoomService coordinates room provisioning and QR payload derivation.
type RoomService struct {
	rooms  repository.RoomRepository
	signer *qr.Signer
	queue  QREnqueuer
	logger *zap.Logger
}

// NewRoomService builds the service.
func NewRoomService(rooms repository.RoomRepository, signer *qr.Signer, queue QREnqueuer, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, signer: signer, queue: queue, logger: logger}
}

// RoomInput describes the caller-settable room fields. dataenc and the QR
// artifact are always derived, never accepted.
type RoomInput struct {
	BedNo      string
	RoomNo     string
	Block      string
	FloorNo    int
	Ward       string
	Speciality string
	RoomType   string
	Status     string
}

func (in RoomInput) validate() (domain.RecordStatus, error) {
	// floor_no is not listed: 0 is the ground floor, a valid value.
	missing := map[string]any{}
	for field, value := range map[string]string{
		"bed_no":     in.BedNo,
		"room_no":    in.RoomNo,
		"block":      in.Block,
		"ward":       in.Ward,
		"speciality": in.Speciality,
		"room_type":  in.RoomType,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "this field is required"
		}
	}
	if len(missing) > 0 {
		return "", apperrors.NewValidationError("missing required fields", missing)
	}

	status := domain.StatusInactive
	if in.Status != "" {
		parsed, err := domain.ParseRecordStatus(in.Status)
		if err != nil {
			return "", apperrors.NewValidationError("invalid status", map[string]any{"status": in.Status})
		}
		status = parsed
	}
	return status, nil
}

// Create persists a room and derives its signed payload. The raster QR image
// is rendered by the background worker; the room is usable immediately.
func (s *RoomService) Create(ctx context.Context, input RoomInput) (*domain.Room, error) {
	status, err := input.validate()
	if err != nil {
		return nil, err
	}

	room := &domain.Room{
		BedNo:      input.BedNo,
		RoomNo:     input.RoomNo,
		Block:      input.Block,
		FloorNo:    input.FloorNo,
		Ward:       input.Ward,
		Speciality: input.Speciality,
		RoomType:   input.RoomType,
		Status:     status,
		QRStatus:   domain.QRStatusPending,
	}

	duplicate, err := s.rooms.ExistsDuplicate(ctx, room)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, duplicateRoomError()
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		if repository.IsUniqueViolation(err, "rooms_identity_unique") {
			return nil, duplicateRoomError()
		}
		return nil, err
	}

	return room, s.refreshPayload(ctx, room)
}

// Update mutates a room and re-derives its payload, overwriting prior values.
func (s *RoomService) Update(ctx context.Context, id int64, input RoomInput) (*domain.Room, error) {
	status, err := input.validate()
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", nil)
		}
		return nil, err
	}

	room.BedNo = input.BedNo
	room.RoomNo = input.RoomNo
	room.Block = input.Block
	room.FloorNo = input.FloorNo
	room.Ward = input.Ward
	room.Speciality = input.Speciality
	room.RoomType = input.RoomType
	room.Status = status
	room.QRStatus = domain.QRStatusPending

	duplicate, err := s.rooms.ExistsDuplicate(ctx, room)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, duplicateRoomError()
	}

	dataenc, err := s.signer.Encode(room)
	if err != nil {
		return nil, err
	}
	room.DataEnc = dataenc

	if err := s.rooms.Update(ctx, room); err != nil {
		if repository.IsUniqueViolation(err, "rooms_identity_unique") {
			return nil, duplicateRoomError()
		}
		return nil, err
	}

	s.enqueueRender(ctx, room.ID)
	return room, nil
}

// UpdateStatus flips the room's active flag and re-signs the payload, since
// status is part of the encoded identity snapshot.
func (s *RoomService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Room, error) {
	parsed, err := domain.ParseRecordStatus(status)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", nil)
		}
		return nil, err
	}

	room.Status = parsed
	if err := s.rooms.UpdateStatus(ctx, id, parsed); err != nil {
		return nil, err
	}
	return room, s.refreshPayload(ctx, room)
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("room", nil)
		}
		return nil, err
	}
	return room, nil
}

// List returns rooms matching the filter plus the unpaginated total.
func (s *RoomService) List(ctx context.Context, filter repository.RoomFilter) ([]domain.Room, int64, error) {
	return s.rooms.List(ctx, filter)
}

// Delete removes a room and, by cascade, its complaints.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if err := s.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("room", nil)
		}
		return err
	}
	return nil
}

// SignatureFor exposes the current payload signature, used by tests and by
// the QR worker to build the target URL.
func (s *RoomService) SignatureFor(room *domain.Room) string {
	return s.signer.Sign(room.DataEnc)
}

// refreshPayload recomputes dataenc from the persisted row and schedules a
// render. Runs after create and status flips, where the identifier or status
// embedded in the payload just changed.
func (s *RoomService) refreshPayload(ctx context.Context, room *domain.Room) error {
	dataenc, err := s.signer.Encode(room)
	if err != nil {
		return err
	}
	room.DataEnc = dataenc
	room.QRStatus = domain.QRStatusPending
	if err := s.rooms.SetDataEnc(ctx, room.ID, dataenc); err != nil {
		return err
	}
	s.enqueueRender(ctx, room.ID)
	return nil
}

func (s *RoomService) enqueueRender(ctx context.Context, roomID int64) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, roomID); err != nil {
		s.logger.Error("enqueue qr render", zap.Int64("room_id", roomID), zap.Error(err))
	}
}

func duplicateRoomError() error {
	return apperrors.NewValidationError(
		"a room with these exact details already exists; all fields except status must be unique together", nil)
}
