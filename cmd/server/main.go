package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"herdview/internal/app"
	"herdview/internal/handlers"
	"herdview/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize application", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close application cleanly", err)
		}
	}()

	server := fiber.New(fiber.Config{
		AppName: "herdview",
	})

	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins:     application.Config.CORSAllowOrigins,
		AllowCredentials: true,
	}))

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		address := fmt.Sprintf(":%d", application.Config.ServerPort)
		if err := server.Listen(address); err != nil {
			log.Er("server stopped", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Er("failed to shut down server", err)
	}
}
