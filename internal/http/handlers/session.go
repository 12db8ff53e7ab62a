package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"offerbytes/internal/domain"
)

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
		// make the new sid visible to later reads in this request
		c.Request().Header.SetCookie("sid", sid)
	}
	return sid
}

// actor identifies who drives the request: the session, plus the user when
// logged in. AttachUser resolves it for requests that carry a sid; a fresh
// session is anonymous.
func actor(c *fiber.Ctx) domain.Actor {
	if a, ok := c.Locals("actor").(domain.Actor); ok && a.SessionID != "" {
		return a
	}
	u, _ := c.Locals("user").(*domain.User)
	return domain.ActorFor(ensureSID(c), u)
}
