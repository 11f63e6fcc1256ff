package handlers

import (
	"time"

	"herdview/internal/app"
	userController "herdview/internal/controllers/users"
	"herdview/internal/handlers/middleware"
	"herdview/internal/logger"
	. "herdview/internal/models"
	"herdview/internal/notify"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	controller *userController.UserController
	sessionTTL time.Duration
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		controller: app.UserController,
		sessionTTL: app.Config.SessionTTL,
		Handler: Handler{
			log:        logger.New("handlers").File("user_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Post("/login", h.login)

	users.Post("/logout", h.middleware.RequireSession, h.logout)
	users.Get("/me", h.middleware.RequireSession, h.currentUser)
	users.Get("/", h.middleware.RequireSession, h.list)
	users.Post("/", h.middleware.RequireSession, h.create)
	users.Put("/:id", h.middleware.RequireSession, h.update)
	users.Delete("/:id", h.middleware.RequireSession, h.delete)
}

func (h *UserHandler) login(c *fiber.Ctx) error {
	var request LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	user, token, err := h.controller.Login(c.Context(), request)
	if err != nil {
		return respondError(c, err, "invalid email or password")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"message": "success",
		"user":    user,
		"notice":  notify.Success("Welcome back, " + user.Name),
	})
}

func (h *UserHandler) logout(c *fiber.Ctx) error {
	log := h.log.Function("logout")

	token := c.Cookies(middleware.SessionCookie)
	if err := h.controller.Logout(c.Context(), token); err != nil {
		log.Er("failed to destroy session", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *UserHandler) currentUser(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	return respondSuccess(c, "session", session)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	page, err := h.controller.List(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to load users")
	}
	return respondSuccess(c, "page", page)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var request UserRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	created, err := h.controller.Create(c.Context(), session, request)
	if err != nil {
		return respondError(c, err, "failed to create user")
	}
	return c.Status(fiber.StatusCreated).
		JSON(fiber.Map{"message": "success", "user": created})
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var request UserRequest
	if err := c.BodyParser(&request); err != nil {
		return respondBadBody(c)
	}

	updated, err := h.controller.Update(c.Context(), session, id, request)
	if err != nil {
		return respondError(c, err, "failed to update user")
	}
	return respondSuccess(c, "user", updated)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	if err := h.controller.Delete(c.Context(), session, id); err != nil {
		return respondError(c, err, "failed to delete user")
	}
	return respondSuccess(c, "deleted", id)
}
