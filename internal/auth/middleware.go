package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/svn-hms/complaint-service/internal/config"
	"github.com/svn-hms/complaint-service/internal/domain"
	"github.com/svn-hms/complaint-service/internal/repository"
	apperrors "github.com/svn-hms/complaint-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
	Role domain.Role
}

// CookieAuth validates the access token cookie and loads the caller.
type CookieAuth struct {
	tokens *TokenManager
	users  repository.UserRepository
	cfg    config.Auth
}

// NewCookieAuth constructs the middleware.
func NewCookieAuth(tokens *TokenManager, users repository.UserRepository, cfg config.Auth) *CookieAuth {
	return &CookieAuth{tokens: tokens, users: users, cfg: cfg}
}

// Required authenticates the request, surfacing 401 when the cookie is
// missing, invalid or expired.
func (m *CookieAuth) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if principal == nil {
			return apperrors.NewUnauthorized("authentication credentials were not provided")
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Optional loads the caller when a valid cookie is present and otherwise lets
// the request through anonymously. A present-but-invalid token still fails
// with 401 so tampering never downgrades silently to anonymous.
func (m *CookieAuth) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := m.authenticate(c)
		if err != nil {
			return err
		}
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	}
}

func (m *CookieAuth) authenticate(c *fiber.Ctx) (*Principal, error) {
	raw := c.Cookies(m.cfg.AccessCookieName)
	if raw == "" {
		return nil, nil
	}

	claims, err := m.tokens.ParseToken(raw, TokenTypeAccess)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("user not found")
		}
		return nil, apperrors.MapError(err)
	}
	return &Principal{User: user, Role: user.Role}, nil
}

// PrincipalFromContext retrieves the authenticated caller, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
