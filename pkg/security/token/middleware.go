package token

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// NewAuthMiddleware returns a Fiber middleware that resolves the bearer
// token from the Authorization header. On success the Session is stored in
// request locals; every failure is the same uniform 401.
func NewAuthMiddleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get("Authorization"))
		if tokenStr == "" {
			return unauthenticated(c)
		}
		session, err := svc.Resolve(c.Context(), tokenStr)
		if err != nil {
			return unauthenticated(c)
		}
		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// SessionFromCtx returns the identity the auth middleware resolved for this
// request. Handlers behind the gate must use this rather than re-reading
// the header.
func SessionFromCtx(c *fiber.Ctx) (Session, bool) {
	session, ok := c.Locals(sessionKey).(Session)
	return session, ok
}

// bearerToken extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare "<token>" are accepted for
// non-standard clients.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if prefix, rest, ok := strings.Cut(header, " "); ok {
		if strings.EqualFold(prefix, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	return header
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthenticated",
		"status":  "failed",
	})
}
