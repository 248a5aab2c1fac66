package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	"github.com/svn-hms/complaint-service/internal/service"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// RoomsHandler manages room registry endpoints.
type RoomsHandler struct {
	service *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(roomService *service.RoomService) *RoomsHandler {
	return &RoomsHandler{service: roomService}
}

// Create POST /rooms.
func (h *RoomsHandler) Create(c *fiber.Ctx) error {
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.service.Create(c.Context(), roomInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRoomResponse(room, h.service.SignatureFor(room))})
}

// Update PUT /rooms/:id.
func (h *RoomsHandler) Update(c *fiber.Ctx) error {
	id, err := parseRoomID(c)
	if err != nil {
		return err
	}
	var req dto.RoomRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.service.Update(c.Context(), id, roomInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room, h.service.SignatureFor(room))})
}

// UpdateStatus POST /rooms/:id/update_status.
func (h *RoomsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseRoomID(c)
	if err != nil {
		return err
	}
	var req dto.RoomStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	room, err := h.service.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room, h.service.SignatureFor(room))})
}

// Get GET /rooms/:id.
func (h *RoomsHandler) Get(c *fiber.Ctx) error {
	id, err := parseRoomID(c)
	if err != nil {
		return err
	}
	room, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoomResponse(room, h.service.SignatureFor(room))})
}

// List GET /rooms.
func (h *RoomsHandler) List(c *fiber.Ctx) error {
	filter := repository.RoomFilter{}
	if status := c.Query("status"); status != "" {
		parsed, err := domain.ParseRecordStatus(status)
		if err != nil {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
		}
		filter.Status = &parsed
	}
	if ward := c.Query("ward"); ward != "" {
		filter.Ward = &ward
	}
	if speciality := c.Query("speciality"); speciality != "" {
		filter.Speciality = &speciality
	}
	if roomType := c.Query("room_type"); roomType != "" {
		filter.RoomType = &roomType
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	filter.Limit, filter.Offset = parsePagination(c)

	rooms, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		items = append(items, dto.NewRoomResponse(&rooms[i], h.service.SignatureFor(&rooms[i])))
	}
	return c.JSON(paginated(c, total, filter.Limit, filter.Offset, items))
}

// Delete DELETE /rooms/:id.
func (h *RoomsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseRoomID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseRoomID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid room id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func roomInput(req dto.RoomRequest) service.RoomInput {
	return service.RoomInput{
		BedNo:      req.BedNo,
		RoomNo:     req.RoomNo,
		Block:      req.Block,
		FloorNo:    req.FloorNo,
		Ward:       req.Ward,
		Speciality: req.Speciality,
		RoomType:   req.RoomType,
		Status:     req.Status,
	}
}
