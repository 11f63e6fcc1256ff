package handlers

import (
	"herdview/internal/app"
	"herdview/internal/handlers/middleware"
	"herdview/internal/logger"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) error {
	setupWebSocketRoute(router, app)
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewUserHandler(*app, api).Register()
	NewCowHandler(*app, api).Register()
	NewHealthCheckHandler(*app, api).Register()
	NewSymptomHandler(*app, api).Register()
	NewDiseaseHandler(*app, api).Register()
	NewReproductionHandler(*app, api).Register()
	NewSalesHandler(*app, api).Register()
	NewMilkHandler(*app, api).Register()
	NewReportHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", app.Middleware.RequireSession, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
