package handlers

import (
	"herdview/internal/app"
	reproductionController "herdview/internal/controllers/reproduction"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReproductionHandler struct {
	Handler
	controller *reproductionController.ReproductionController
}

func NewReproductionHandler(app app.App, router fiber.Router) *ReproductionHandler {
	return &ReproductionHandler{
		controller: app.ReproductionController,
		Handler: Handler{
			log:        logger.New("handlers").File("reproduction_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReproductionHandler) Register() {
	records := h.router.Group("/reproductions", h.middleware.RequireSession)
	records.Get("/", h.list)
	records.Post("/", h.create)
	records.Put("/:id", h.update)
	records.Delete("/:id", h.delete)
}

func (h *ReproductionHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load reproduction records")
	}
	return respondSuccess(c, "page", page)
}

func (h *ReproductionHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request ReproductionRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	record, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to add reproduction record")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "reproduction": record})
}

func (h *ReproductionHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request ReproductionRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	record, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update reproduction record")
	}
	return respondSuccess(c, "reproduction", record)
}

func (h *ReproductionHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	return respondError(c, h.controller.Delete(session), "failed to delete reproduction record")
}
