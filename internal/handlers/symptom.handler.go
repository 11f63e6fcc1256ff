package handlers

import (
	"herdview/internal/app"
	symptomController "herdview/internal/controllers/symptoms"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SymptomHandler struct {
	Handler
	controller *symptomController.SymptomController
}

func NewSymptomHandler(app app.App, router fiber.Router) *SymptomHandler {
	return &SymptomHandler{
		controller: app.SymptomController,
		Handler: Handler{
			log:        logger.New("handlers").File("symptom_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SymptomHandler) Register() {
	symptoms := h.router.Group("/symptoms", h.middleware.RequireSession)
	symptoms.Get("/", h.list)
	symptoms.Post("/", h.create)
	symptoms.Put("/:id", h.update)
	symptoms.Delete("/:id", h.delete)
}

func (h *SymptomHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load symptoms")
	}
	return respondSuccess(c, "page", page)
}

func (h *SymptomHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request SymptomRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	symptom, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to record symptom")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "symptom": symptom})
}

func (h *SymptomHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request SymptomRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	symptom, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update symptom")
	}
	return respondSuccess(c, "symptom", symptom)
}

func (h *SymptomHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.controller.Delete(c.Context(), session, id); err != nil {
		return respondError(c, err, "failed to delete symptom")
	}
	return respondSuccess(c, "deleted", id)
}
