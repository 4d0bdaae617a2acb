package products

import (
	"errors"

	"snapshot-sync/core/logger"
	"snapshot-sync/core/reconcile"
	"snapshot-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for products.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the products routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Post("/reconcile", h.HandleReconcile)
	group.Post("/reconcile/object", h.HandleReconcileObject)
	group.Post("/diff", h.HandleDiff)
	group.Get("/reports", h.HandleListReports)
}

// DiffRequest is the body of the diff endpoint.
type DiffRequest struct {
	Existing []Product `json:"existing"`
	Incoming []Product `json:"incoming"`
}

func requestFromQuery(c *fiber.Ctx) Request {
	return Request{
		Policy:    c.Query("policy"),
		BatchSize: utils.ToInt(c.Query("batch_size")),
		DryRun:    utils.ToBool(c.Query("dry_run")),
		Report:    utils.ToBool(c.Query("report")),
	}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrDuplicateKey), errors.Is(err, reconcile.ErrInvalidConfiguration):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoDatabase):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleReconcile reconciles the posted snapshot against the catalog database.
// @Summary Reconcile Products
// @Description Diff the posted product snapshot against the database and apply the changes unless dry_run is set.
// @Tags products
// @Accept json
// @Produce json
// @Param policy query string false "Update policy (e.g. 'newer-wins')"
// @Param dry_run query bool false "Compute the result without writing it"
// @Param report query bool false "Upload a report to object storage"
// @Param snapshot body []Product true "Incoming snapshot"
// @Success 200 {object} Outcome "Reconciliation outcome"
// @Failure 400 {object} map[string]string "Invalid snapshot or options"
// @Failure 503 {object} map[string]string "Database not available"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var incoming []Product
	if err := c.BodyParser(&incoming); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid snapshot: " + err.Error(),
		})
	}

	outcome, err := h.service.Reconcile(c.Context(), incoming, requestFromQuery(c))
	if err != nil {
		l.Error("Product reconciliation failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(outcome)
}

// HandleReconcileObject reconciles a snapshot stored in object storage.
// @Summary Reconcile Products From Storage
// @Description Stream a JSON array of products from the bucket and reconcile it in batches.
// @Tags products
// @Produce json
// @Param object query string false "Object name (defaults to the configured snapshot object)"
// @Param policy query string false "Update policy"
// @Param batch_size query int false "Incoming batch size"
// @Param dry_run query bool false "Compute the result without writing it"
// @Param report query bool false "Upload a report to object storage"
// @Success 200 {object} Outcome "Reconciliation outcome"
// @Failure 400 {object} map[string]string "Invalid snapshot or options"
// @Failure 503 {object} map[string]string "Database not available"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/reconcile/object [post]
func (h *Handler) HandleReconcileObject(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	outcome, err := h.service.ReconcileObject(c.Context(), c.Query("object"), requestFromQuery(c))
	if err != nil {
		l.Error("Product reconciliation from storage failed", zap.Error(err), zap.String("object", c.Query("object")))
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(outcome)
}

// HandleDiff diffs two posted snapshots without touching the database.
// @Summary Diff Product Snapshots
// @Description Classify inserts, updates and deletes between two posted snapshots.
// @Tags products
// @Accept json
// @Produce json
// @Param policy query string false "Update policy"
// @Param snapshots body DiffRequest true "Existing and incoming snapshots"
// @Success 200 {object} map[string]any "Reconcile result"
// @Failure 400 {object} map[string]string "Invalid snapshots or options"
// @Router /products/diff [post]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	var body DiffRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body: " + err.Error(),
		})
	}

	result, err := h.service.Diff(body.Existing, body.Incoming, requestFromQuery(c))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleListReports lists uploaded reconciliation reports.
// @Summary List Reports
// @Description List reconciliation reports stored in the bucket.
// @Tags products
// @Produce json
// @Success 200 {array} storage.ObjectSummary "Reports"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/reports [get]
func (h *Handler) HandleListReports(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reports, err := h.service.Reports(c.Context())
	if err != nil {
		l.Error("Failed to list reports", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":   len(reports),
		"reports": reports,
	})
}
