package domain

import "time"

// QRStatus tracks the lifecycle of a room's QR artifact. Rooms are usable as
// soon as they persist; the raster image catches up asynchronously.
type QRStatus string

const (
	QRStatusPending QRStatus = "pending"
	QRStatusSigned  QRStatus = "signed"
)

// Room is a physical bed location a complaint can be raised against.
type Room struct {
	ID         int64
	BedNo      string
	RoomNo     string
	Block      string
	FloorNo    int
	Ward       string
	Speciality string
	RoomType   string
	Status     RecordStatus
	DataEnc    string
	QRStatus   QRStatus
	QRPath     *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
