package records

import (
	"errors"

	"snapshot-sync/core/logger"
	"snapshot-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for records.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the records routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/records")
	group.Post("/diff", h.HandleDiff)
}

// HandleDiff diffs two raw JSON arrays.
// @Summary Diff Records
// @Description Diff two JSON arrays keyed by a gjson path and report content digests of changed records.
// @Tags records
// @Accept json
// @Produce json
// @Param request body DiffRequest true "Snapshots and options"
// @Success 200 {object} DiffResponse "Diff"
// @Failure 400 {object} map[string]string "Invalid snapshots or options"
// @Router /records/diff [post]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req DiffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body: " + err.Error(),
		})
	}

	resp, err := h.service.Diff(req)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, reconcile.ErrContentComparison) {
			status = fiber.StatusInternalServerError
		}
		l.Warn("Records diff failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(resp)
}
