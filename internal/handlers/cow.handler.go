package handlers

import (
	"herdview/internal/app"
	cowController "herdview/internal/controllers/cows"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CowHandler struct {
	Handler
	controller *cowController.CowController
}

func NewCowHandler(app app.App, router fiber.Router) *CowHandler {
	return &CowHandler{
		controller: app.CowController,
		Handler: Handler{
			log:        logger.New("handlers").File("cow_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *CowHandler) Register() {
	cows := h.router.Group("/cows", h.middleware.RequireSession)
	cows.Get("/", h.list)
	cows.Post("/", h.create)
	cows.Put("/:id", h.update)
	cows.Delete("/:id", h.delete)
}

func (h *CowHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load cows")
	}
	return respondSuccess(c, "page", page)
}

func (h *CowHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request CowRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	cow, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to add cow")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "cow": cow})
}

func (h *CowHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request CowRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	cow, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update cow")
	}
	return respondSuccess(c, "cow", cow)
}

func (h *CowHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.controller.Delete(c.Context(), session, id); err != nil {
		return respondError(c, err, "failed to delete cow")
	}
	return respondSuccess(c, "deleted", id)
}
