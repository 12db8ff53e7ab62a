package handlers

import (
	"github.com/gofiber/fiber/v2"

	"offerbytes/internal/domain"
	applog "offerbytes/internal/log"
	"offerbytes/internal/services"
)

// AttachUser resolves the sid cookie once per request and stores the actor
// under "actor" and, when logged in, the user under "user". Requests without
// a sid get theirs from the first handler that needs one.
func AttachUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			a, u := auth.Resolve(sid)
			c.Locals("actor", a)
			if u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	}
}

// sessionUser reuses what AttachUser stored and resolves the cookie itself
// when the middleware did not run.
func sessionUser(c *fiber.Ctx, auth *services.AuthService) (string, *domain.User) {
	sid := c.Cookies("sid")
	if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
		return sid, u
	}
	if sid == "" {
		return "", nil
	}
	a, u := auth.Resolve(sid)
	c.Locals("actor", a)
	if u != nil {
		c.Locals("user", u)
	}
	return sid, u
}

// RequireAdmin lets only admin accounts through; everyone else gets a 403.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid, u := sessionUser(c, auth)
		if sid == "" {
			return c.Redirect("/login")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, u := sessionUser(c, auth); u == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}
