package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/arman-d/DermaCareBack/pkg/roleclaim"
)

const (
	signInPath    = "/signin"
	signUpPath    = "/signup"
	dashboardPath = "/dashboard"
	adminPrefix   = "/admin"
)

// RoleGate is the fast path: a purely in-process check of the signed role
// cookie, used only for UX redirects. An invalid or missing claim falls
// through to the slow path untouched; the claim never authorizes a
// state-changing call on its own.
func RoleGate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := roleclaim.Verify(c.Cookies(roleclaim.CookieName), secret, time.Now())
		if !ok {
			return c.Next()
		}

		path := c.Path()
		switch {
		case path == signInPath || path == signUpPath:
			// Already signed in; send the user to their home.
			return c.Redirect(roleHome(role), fiber.StatusFound)
		case strings.HasPrefix(path, adminPrefix) && role != "admin":
			// Stale or forged claim on an admin route: force sign-out.
			ClearRoleCookie(c)
			return c.Redirect(signInPath, fiber.StatusFound)
		case path == dashboardPath && role == "admin":
			return c.Redirect(adminPrefix, fiber.StatusFound)
		}

		return c.Next()
	}
}

func roleHome(role string) string {
	if role == "admin" {
		return adminPrefix
	}
	return dashboardPath
}

// ClearRoleCookie expires the role claim immediately, as done on sign-out.
func ClearRoleCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     roleclaim.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Path:     "/",
	})
}
