package handlers

import (
	"herdview/internal/app"
	diseaseController "herdview/internal/controllers/diseases"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DiseaseHandler struct {
	Handler
	controller *diseaseController.DiseaseController
}

func NewDiseaseHandler(app app.App, router fiber.Router) *DiseaseHandler {
	return &DiseaseHandler{
		controller: app.DiseaseController,
		Handler: Handler{
			log:        logger.New("handlers").File("disease_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DiseaseHandler) Register() {
	diseases := h.router.Group("/disease-history", h.middleware.RequireSession)
	diseases.Get("/", h.list)
	diseases.Post("/", h.create)
	diseases.Put("/:id", h.update)
	// The delete route stays registered so the refusal arrives as a
	// popup instead of a bare 404.
	diseases.Delete("/:id", h.delete)
}

func (h *DiseaseHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load disease history")
	}
	return respondSuccess(c, "page", page)
}

func (h *DiseaseHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request DiseaseHistoryRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	record, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to record disease history")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "diseaseHistory": record})
}

func (h *DiseaseHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request DiseaseHistoryRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	record, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update disease history")
	}
	return respondSuccess(c, "diseaseHistory", record)
}

func (h *DiseaseHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	return respondError(c, h.controller.Delete(session), "failed to delete disease history")
}
