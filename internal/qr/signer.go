package qr

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/url"

	"github.com/svn-hms/complaint-service/internal/domain"
)

// Payload is the canonical subset of room fields embedded in the QR target.
// Key casing is part of the wire format consumed by the public complaint form.
type Payload struct {
	ID         int64  `json:"id"`
	BedNo      string `json:"bed_no"`
	RoomNo     string `json:"room_no"`
	Block      string `json:"Block"`
	FloorNo    int    `json:"Floor_no"`
	Ward       string `json:"ward"`
	Speciality string `json:"speciality"`
	RoomType   string `json:"room_type"`
	Status     string `json:"status"`
}

// Signer derives tamper-evident QR payloads for rooms. The signature is never
// persisted; the complaint form recomputes the HMAC from dataenc and compares.
type Signer struct {
	secret      []byte
	formBaseURL string
}

// NewSigner builds a signer around the server-held secret.
func NewSigner(secret, formBaseURL string) *Signer {
	return &Signer{secret: []byte(secret), formBaseURL: formBaseURL}
}

// Encode serializes the room's identity fields to the base64 dataenc string.
func (s *Signer) Encode(room *domain.Room) (string, error) {
	payload := Payload{
		ID:         room.ID,
		BedNo:      room.BedNo,
		RoomNo:     room.RoomNo,
		Block:      room.Block,
		FloorNo:    room.FloorNo,
		Ward:       room.Ward,
		Speciality: room.Speciality,
		RoomType:   room.RoomType,
		Status:     string(room.Status),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Sign computes hex(HMAC-SHA256(secret, dataenc)).
func (s *Signer) Sign(dataenc string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(dataenc))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the HMAC over dataenc and compares in constant time.
func (s *Signer) Verify(dataenc, signature string) bool {
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(dataenc))
	return hmac.Equal(mac.Sum(nil), expected)
}

// TargetURL embeds dataenc and its signature in the complaint form URL.
func (s *Signer) TargetURL(dataenc string) string {
	values := url.Values{}
	values.Set("data", dataenc)
	values.Set("signature", s.Sign(dataenc))
	return s.formBaseURL + "?" + values.Encode()
}

// Decode parses a dataenc string back into its payload, for verification and
// tests of round-trip fidelity.
func Decode(dataenc string) (*Payload, error) {
	raw, err := base64.StdEncoding.DecodeString(dataenc)
	if err != nil {
		return nil, err
	}
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
