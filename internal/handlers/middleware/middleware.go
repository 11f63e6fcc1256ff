package middleware

import (
	"herdview/internal/logger"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/session"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the only credential the browser holds. The cookie
// carries an opaque token; the identity lives server-side.
const SessionCookie = "herdview_session"

type Middleware struct {
	Sessions *session.Store
	log      logger.Logger
}

func New(sessions *session.Store) Middleware {
	return Middleware{
		Sessions: sessions,
		log:      logger.New("middleware"),
	}
}

// RequireSession resolves the session cookie and stores the Session in
// locals. Anything short of a valid session gets a 401, never a panic.
func (m Middleware) RequireSession(c *fiber.Ctx) error {
	log := m.log.Function("RequireSession")

	token := c.Cookies(SessionCookie)
	sess, found, err := m.Sessions.Get(c.Context(), token)
	if err != nil {
		log.Er("session lookup failed", err)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "error", "notice": notify.Error("something went wrong, please try again")})
	}
	if !found {
		return c.Status(fiber.StatusUnauthorized).
			JSON(fiber.Map{"message": "unauthorized", "notice": notify.Error("please sign in to continue")})
	}

	c.Locals("session", sess)
	c.Locals("userID", sess.UserID)
	return c.Next()
}

// SessionFromLocals is the typed read half of RequireSession.
func SessionFromLocals(c *fiber.Ctx) (Session, bool) {
	sess, ok := c.Locals("session").(Session)
	return sess, ok
}
