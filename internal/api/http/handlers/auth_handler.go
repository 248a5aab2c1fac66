package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/api/dto"
	"github.com/svn-hms/complaint-service/internal/auth"
	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/service"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// AuthHandler manages session and account endpoints.
type AuthHandler struct {
	service *service.AuthService
	cfg     config.Auth
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.Auth) *AuthHandler {
	return &AuthHandler{service: authService, cfg: cfg}
}

// Login POST /auth/token. Issues the access/refresh cookie pair.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password are required", nil)
	}

	user, pair, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	auth.SetAccessCookie(c, h.cfg, pair.AccessToken, pair.AccessExpiresAt)
	auth.SetRefreshCookie(c, h.cfg, pair.RefreshToken, pair.RefreshExpiresAt)

	deptName, err := h.service.DepartmentNameFor(c.Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfileResponse(user, deptName)})
}

// Refresh POST /auth/token/refresh. Rotates the access cookie from the
// refresh cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cfg.RefreshCookieName)
	_, access, expiresAt, err := h.service.Refresh(c.Context(), refreshToken)
	if err != nil {
		return err
	}
	auth.SetAccessCookie(c, h.cfg, access, expiresAt)
	return c.JSON(dto.MessageResponse{Detail: "access token refreshed"})
}

// Logout POST /auth/logout. Clears both session cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	auth.ClearAuthCookies(c, h.cfg)
	return c.Status(fiber.StatusResetContent).JSON(dto.MessageResponse{Detail: "logged out"})
}

// Profile GET /auth/user.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication credentials were not provided")
	}
	deptName, err := h.service.DepartmentNameFor(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserProfileResponse(principal.User, deptName)})
}

// DepartmentStaff GET /auth/department-staff/:department_name.
func (h *AuthHandler) DepartmentStaff(c *fiber.Ctx) error {
	departmentName := c.Params("department_name")
	if departmentName == "" {
		return apperrors.NewValidationError("department name is required", nil)
	}
	staff, err := h.service.ListDepartmentStaff(c.Context(), departmentName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponses(staff)})
}

// CreateUser POST /auth/users. Master-admin account provisioning.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.CreateUser(c.Context(), service.CreateUserInput{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       req.Password,
		Role:           req.Role,
		DepartmentCode: req.DepartmentCode,
	})
	if err != nil {
		return err
	}
	deptName, err := h.service.DepartmentNameFor(c.Context(), user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserProfileResponse(user, deptName)})
}
