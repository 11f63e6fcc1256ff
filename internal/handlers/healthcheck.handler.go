package handlers

import (
	"herdview/internal/app"
	healthCheckController "herdview/internal/controllers/healthchecks"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type HealthCheckHandler struct {
	Handler
	controller *healthCheckController.HealthCheckController
}

func NewHealthCheckHandler(app app.App, router fiber.Router) *HealthCheckHandler {
	return &HealthCheckHandler{
		controller: app.HealthCheckController,
		Handler: Handler{
			log:        logger.New("handlers").File("healthcheck_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *HealthCheckHandler) Register() {
	checks := h.router.Group("/health-checks", h.middleware.RequireSession)
	checks.Get("/", h.list)
	checks.Post("/", h.create)
	checks.Put("/:id", h.update)
	checks.Delete("/:id", h.delete)
}

func (h *HealthCheckHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load health checks")
	}
	return respondSuccess(c, "page", page)
}

func (h *HealthCheckHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request HealthCheckRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	check, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to record health check")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "healthCheck": check})
}

func (h *HealthCheckHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request HealthCheckRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	check, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update health check")
	}
	return respondSuccess(c, "healthCheck", check)
}

func (h *HealthCheckHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.controller.Delete(c.Context(), session, id); err != nil {
		return respondError(c, err, "failed to delete health check")
	}
	return respondSuccess(c, "deleted", id)
}
