package tablesync

import (
	"errors"

	"permit-sync/core/database"
	"permit-sync/core/dataset"
	"permit-sync/core/logger"
	"permit-sync/core/reconcile"
	"permit-sync/core/tabular"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the table sync.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/health", h.HandleHealth)

	group := app.Group("/sync")
	group.Get("/plan", h.HandlePlan)
	group.Get("/schema", h.HandleSchema)
	group.Get("/preview", h.HandlePreview)
	group.Post("/apply", h.HandleApply)
}

// DatasetView is the JSON form of a dataset.
type DatasetView struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewDatasetView converts ds for JSON output.
func NewDatasetView(ds *dataset.Dataset) DatasetView {
	view := DatasetView{Columns: ds.Names(), Rows: make([][]any, ds.Len())}
	for i := range view.Rows {
		row := ds.Row(i)
		out := make([]any, len(row))
		for j, v := range row {
			out[j] = v.Any()
		}
		view.Rows[i] = out
	}
	return view
}

// HandleHealth reports database and storage connectivity.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	status, err := h.service.Health(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "checks": status})
	}
	return c.JSON(fiber.Map{"status": "ok", "checks": status})
}

// HandlePlan returns the plan for the options given as query flags.
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	opts := reconcile.ReconcileOptions{
		AddColumns: c.QueryBool("add_columns", true),
		Reorder:    c.QueryBool("reorder", true),
		Load:       c.QueryBool("load", false),
	}

	plan, err := h.service.Plan(c.UserContext(), opts)
	if err != nil {
		return h.fail(c, "Plan failed", err)
	}
	return c.JSON(plan)
}

// HandleSchema returns the columns of the target table or of ?table=.
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	schema, err := h.service.Schema(c.UserContext(), c.Query("table"))
	if err != nil {
		return h.fail(c, "Schema lookup failed", err)
	}
	return c.JSON(schema)
}

// HandlePreview returns the first ?limit= rows of the target table.
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	ds, err := h.service.Preview(c.UserContext(), c.QueryInt("limit", defaultPreviewLimit))
	if err != nil {
		return h.fail(c, "Preview failed", err)
	}
	return c.JSON(NewDatasetView(ds))
}

// HandleApply runs the pipeline with the JSON options in the body.
// Without "confirmed": true the run is a dry run.
func (h *Handler) HandleApply(c *fiber.Ctx) error {
	var opts reconcile.ReconcileOptions
	if err := c.BodyParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}

	report, err := h.service.Run(c.UserContext(), opts)
	if err != nil {
		if report != nil {
			logger.WithRayID(h.service.logger, c).Error("Sync run failed", zap.Error(err))
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error(), "report": report})
		}
		return h.fail(c, "Sync run failed", err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrSchemaNotFound), errors.Is(err, tabular.ErrFileNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrInvalidSchema), errors.Is(err, tabular.ErrParse),
		errors.Is(err, dataset.ErrColumnNotFound):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrRunInProgress):
		return fiber.StatusConflict
	case errors.Is(err, database.ErrConnection):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
