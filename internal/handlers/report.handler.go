package handlers

import (
	"fmt"
	"time"

	"herdview/internal/app"
	cowController "herdview/internal/controllers/cows"
	healthCheckController "herdview/internal/controllers/healthchecks"
	milkController "herdview/internal/controllers/milk"
	salesController "herdview/internal/controllers/sales"
	"herdview/internal/logger"
	"herdview/internal/reports"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler serves CSV downloads of the visible collection for the
// exportable pages. The export honors the caller's search and sort but
// ignores pagination.
type ReportHandler struct {
	Handler
	cows   *cowController.CowController
	checks *healthCheckController.HealthCheckController
	sales  *salesController.SalesController
	milk   *milkController.MilkController
}

func NewReportHandler(app app.App, router fiber.Router) *ReportHandler {
	return &ReportHandler{
		cows:   app.CowController,
		checks: app.HealthCheckController,
		sales:  app.SalesController,
		milk:   app.MilkController,
		Handler: Handler{
			log:        logger.New("handlers").File("report_handler"),
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReportHandler) Register() {
	group := h.router.Group("/reports", h.middleware.RequireSession)
	group.Get("/cows", h.cowReport)
	group.Get("/health-checks", h.healthCheckReport)
	group.Get("/sales", h.salesReport)
	group.Get("/milk-yields", h.milkReport)
}

func sendCSV(c *fiber.Ctx, resource string, body []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", reports.Filename(resource, time.Now())))
	return c.Send(body)
}

func (h *ReportHandler) cowReport(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	views, err := h.cows.Export(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to export cows")
	}
	body, err := reports.Cows(views)
	if err != nil {
		return respondError(c, err, "failed to build cow report")
	}
	return sendCSV(c, cowController.Resource, body)
}

func (h *ReportHandler) healthCheckReport(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	views, err := h.checks.Export(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to export health checks")
	}
	body, err := reports.HealthChecks(views)
	if err != nil {
		return respondError(c, err, "failed to build health check report")
	}
	return sendCSV(c, healthCheckController.Resource, body)
}

func (h *ReportHandler) salesReport(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	views, err := h.sales.Export(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to export sales")
	}
	body, err := reports.Sales(views)
	if err != nil {
		return respondError(c, err, "failed to build sales report")
	}
	return sendCSV(c, salesController.Resource, body)
}

func (h *ReportHandler) milkReport(c *fiber.Ctx) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	views, err := h.milk.Export(c.Context(), session, parseQuery(c))
	if err != nil {
		return respondError(c, err, "failed to export milk yields")
	}
	body, err := reports.MilkYields(views)
	if err != nil {
		return respondError(c, err, "failed to build milk yield report")
	}
	return sendCSV(c, milkController.Resource, body)
}
