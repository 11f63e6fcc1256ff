package handlers

import (
	"herdview/internal/app"
	milkController "herdview/internal/controllers/milk"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MilkHandler struct {
	Handler
	controller *milkController.MilkController
}

func NewMilkHandler(app app.App, router fiber.Router) *MilkHandler {
	return &MilkHandler{
		controller: app.MilkController,
		Handler: Handler{
			log:        logger.New("handlers").File("milk_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MilkHandler) Register() {
	milk := h.router.Group("/milk-yields", h.middleware.RequireSession)
	milk.Get("/", h.list)
	milk.Post("/", h.create)
}

func (h *MilkHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load milk yields")
	}
	return respondSuccess(c, "page", page)
}

func (h *MilkHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request MilkYieldRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	yield, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to record milk yield")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "milkYield": yield})
}
