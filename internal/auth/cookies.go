package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/svn-hms/complaint-service/internal/config"
)

// SetAccessCookie writes the access token cookie.
func SetAccessCookie(c *fiber.Ctx, cfg config.Auth, token string, expiresAt time.Time) {
	setTokenCookie(c, cfg, cfg.AccessCookieName, token, expiresAt)
}

// SetRefreshCookie writes the refresh token cookie.
func SetRefreshCookie(c *fiber.Ctx, cfg config.Auth, token string, expiresAt time.Time) {
	setTokenCookie(c, cfg, cfg.RefreshCookieName, token, expiresAt)
}

// ClearAuthCookies expires both session cookies.
func ClearAuthCookies(c *fiber.Ctx, cfg config.Auth) {
	expired := time.Now().Add(-time.Hour)
	setTokenCookie(c, cfg, cfg.AccessCookieName, "", expired)
	setTokenCookie(c, cfg, cfg.RefreshCookieName, "", expired)
}

func setTokenCookie(c *fiber.Ctx, cfg config.Auth, name, value string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expiresAt,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	})
}
