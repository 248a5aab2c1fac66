package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/domain"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

// RequireMasterAdmin allows only master admins. Unauthenticated requests get
// 401, authenticated callers with any other role get 403.
func RequireMasterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication credentials were not provided")
		}
		switch principal.Role {
		case domain.RoleMasterAdmin:
			return c.Next()
		case domain.RoleDeptAdmin, domain.RoleStaff, domain.RoleUser:
			return apperrors.NewForbidden("master admin role required")
		}
		return apperrors.NewForbidden("master admin role required")
	}
}

// RequireAdmin allows master admins and department admins.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication credentials were not provided")
		}
		switch principal.Role {
		case domain.RoleMasterAdmin, domain.RoleDeptAdmin:
			return c.Next()
		case domain.RoleStaff, domain.RoleUser:
			return apperrors.NewForbidden("admin role required")
		}
		return apperrors.NewForbidden("admin role required")
	}
}
