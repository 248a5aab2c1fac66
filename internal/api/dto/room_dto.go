package dto

import (
	"time"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// RoomRequest is the create/update payload for a room.
type RoomRequest struct {
	BedNo      string `json:"bed_no"`
	RoomNo     string `json:"room_no"`
	Block      string `json:"block"`
	FloorNo    int    `json:"floor_no"`
	Ward       string `json:"ward"`
	Speciality string `json:"speciality"`
	RoomType   string `json:"room_type"`
	Status     string `json:"status"`
}

// RoomStatusRequest flips a room active or inactive.
type RoomStatusRequest struct {
	Status string `json:"status"`
}

// RoomResponse is the full room payload including the signed QR material.
type RoomResponse struct {
	ID         int64     `json:"id"`
	BedNo      string    `json:"bed_no"`
	RoomNo     string    `json:"room_no"`
	Block      string    `json:"block"`
	FloorNo    int       `json:"floor_no"`
	Ward       string    `json:"ward"`
	Speciality string    `json:"speciality"`
	RoomType   string    `json:"room_type"`
	Status     string    `json:"status"`
	DataEnc    string    `json:"dataenc"`
	Signature  string    `json:"signature"`
	QRStatus   string    `json:"qr_status"`
	QRPath     *string   `json:"qr_path"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewRoomResponse maps a room plus its current payload signature.
func NewRoomResponse(room *domain.Room, signature string) RoomResponse {
	return RoomResponse{
		ID:         room.ID,
		BedNo:      room.BedNo,
		RoomNo:     room.RoomNo,
		Block:      room.Block,
		FloorNo:    room.FloorNo,
		Ward:       room.Ward,
		Speciality: room.Speciality,
		RoomType:   room.RoomType,
		Status:     string(room.Status),
		DataEnc:    room.DataEnc,
		Signature:  signature,
		QRStatus:   string(room.QRStatus),
		QRPath:     room.QRPath,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
}
