package handlers

import (
	"errors"
	"strconv"

	"herdview/internal/controllers"
	"herdview/internal/handlers/middleware"
	. "herdview/internal/models"
	"herdview/internal/notify"
	"herdview/internal/pipeline"

	"github.com/gofiber/fiber/v2"
)

// parseQuery reads the list controls every collection page shares.
// PageSize is ignored here; each controller fixes its own. When the
// client echoes the column it is already sorted by in "active",
// selecting that column again flips the direction and selecting a new
// one resets to ascending.
func parseQuery(c *fiber.Ctx) pipeline.Query {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	sortKey := c.Query("sort")
	direction := pipeline.ParseDirection(c.Query("dir"))
	if active := c.Query("active"); active != "" && sortKey != "" {
		if active == sortKey {
			direction = direction.Toggle()
		} else {
			direction = pipeline.Ascending
		}
	}
	return pipeline.Query{
		Search:    c.Query("search"),
		SortKey:   sortKey,
		Direction: direction,
		Page:      page,
	}
}

// requireSession reads the session the middleware stored. The
// middleware already rejects unauthenticated requests, so a miss here
// means the route was registered without it.
func requireSession(c *fiber.Ctx) (Session, error) {
	sess, ok := middleware.SessionFromLocals(c)
	if !ok {
		return Session{}, fiber.ErrUnauthorized
	}
	return sess, nil
}

// parseID reads the :id route param. On a bad id it writes the 400
// envelope itself and reports false; the caller just returns nil.
func parseID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		_ = c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid", "notice": notify.Error("invalid record id")})
		return 0, false
	}
	return id, true
}

func respondBadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).
		JSON(fiber.Map{"message": "invalid", "notice": notify.Error("could not read the submitted form")})
}

// respondError turns a controller error into exactly one popup notice.
// Gate refusals are warnings, validation failures and upstream errors
// are error popups carrying the server's message when it has one.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var blocked *controllers.BlockedError
	if errors.As(err, &blocked) {
		return c.Status(fiber.StatusForbidden).
			JSON(fiber.Map{"message": "blocked", "notice": notify.Warning(blocked.Reason)})
	}

	var invalid *controllers.ValidationError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"message": "invalid", "notice": notify.Error(invalid.Reason)})
	}

	return c.Status(fiber.StatusBadGateway).
		JSON(fiber.Map{"message": "error", "notice": controllers.FailureNotice(err, fallback)})
}

func respondSuccess(c *fiber.Ctx, key string, value any) error {
	return c.JSON(fiber.Map{"message": "success", key: value})
}
