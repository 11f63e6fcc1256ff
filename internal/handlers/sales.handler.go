package handlers

import (
	"herdview/internal/app"
	salesController "herdview/internal/controllers/sales"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	Handler
	controller *salesController.SalesController
}

func NewSalesHandler(app app.App, router fiber.Router) *SalesHandler {
	return &SalesHandler{
		controller: app.SalesController,
		Handler: Handler{
			log:        logger.New("handlers").File("sales_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SalesHandler) Register() {
	sales := h.router.Group("/sales", h.middleware.RequireSession)
	sales.Get("/", h.list)
	sales.Post("/", h.create)
	sales.Put("/:id", h.update)
	sales.Delete("/:id", h.delete)
}

func (h *SalesHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load sales")
	}
	return respondSuccess(c, "page", page)
}

func (h *SalesHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request SalesRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	sale, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to record sale")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "sale": sale})
}

func (h *SalesHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request SalesRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	sale, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update sale")
	}
	return respondSuccess(c, "sale", sale)
}

func (h *SalesHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.controller.Delete(c.Context(), session, id); err != nil {
		return respondError(c, err, "failed to delete sale")
	}
	return respondSuccess(c, "deleted", id)
}
