package comparison

import (
	"errors"

	"location-manager/core/logger"
	"location-manager/core/planner"
	"location-manager/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for snapshot comparison and update planning.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	snapshots := app.Group("/snapshots")
	snapshots.Post("/load", h.HandleLoadSnapshots)
	snapshots.Get("/", h.HandleListSnapshots)

	cmp := app.Group("/compare")
	cmp.Get("/stats", h.HandleStats)
	cmp.Get("/:id", h.HandleCompareEntity)

	updates := app.Group("/updates")
	updates.Post("/", h.HandleApplyUpdate)
	updates.Get("/", h.HandleHistory)
}

// HandleLoadSnapshots loads all configured snapshot labels.
// @Summary Load Snapshots
// @Description Fetches and installs every configured snapshot label. All-or-nothing per label; clears the comparison cache on success.
// @Tags snapshots
// @Produce json
// @Success 200 {object} map[string]interface{} "Loaded snapshots"
// @Failure 502 {object} map[string]string "Feed unavailable"
// @Router /snapshots/load [post]
func (h *Handler) HandleLoadSnapshots(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Loading all snapshot versions")

	if err := h.service.LoadAll(c.Context()); err != nil {
		l.Error("Snapshot load failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":    "loaded",
		"snapshots": h.service.Snapshots(),
	})
}

// HandleListSnapshots summarizes the loaded snapshots.
// @Summary List Snapshots
// @Description Returns label, load time, and record counts for every loaded snapshot.
// @Tags snapshots
// @Produce json
// @Success 200 {array} comparison.SnapshotInfo "Loaded snapshots"
// @Router /snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	infos := h.service.Snapshots()
	if infos == nil {
		infos = []SnapshotInfo{}
	}
	return c.JSON(infos)
}

// HandleCompareEntity returns the comparison result for one entity id.
// @Summary Compare Entity
// @Description Computes (or returns the cached) field-level diff for one entity across the two snapshots.
// @Tags compare
// @Produce json
// @Param id path string true "Entity id (gdosId)"
// @Success 200 {object} compare.Result "Comparison result"
// @Failure 409 {object} map[string]string "Snapshots not loaded"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/{id} [get]
func (h *Handler) HandleCompareEntity(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	id := c.Params("id")

	result, err := h.service.Compare(id)
	if err != nil {
		var notLoaded *snapshot.NotLoadedError
		if errors.As(err, &notLoaded) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Comparison failed", zap.String("entity_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// HandleStats returns aggregate comparison statistics.
// @Summary Comparison Stats
// @Description Returns entity counts, review counts, and the per-field change-frequency breakdown.
// @Tags compare
// @Produce json
// @Success 200 {object} planner.Stats "Aggregate counts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	stats, err := h.service.Stats()
	if err != nil {
		l.Error("Stats computation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}

// updateRequest is the POST /updates body.
type updateRequest struct {
	EntityID       string   `json:"entity_id"`
	Fields         []string `json:"fields"`
	TargetSnapshot string   `json:"target_snapshot"`
}

// HandleApplyUpdate records an update intent for the selected fields.
// @Summary Apply Update
// @Description Records an audit entry for the selected changed fields of an entity. Requires a prior comparison.
// @Tags updates
// @Accept json
// @Produce json
// @Success 200 {object} planner.UpdateRecord "Recorded update"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Entity not compared"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /updates [post]
func (h *Handler) HandleApplyUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed JSON: " + err.Error()})
	}
	if req.EntityID == "" || len(req.Fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "entity_id and fields are required"})
	}

	rec, err := h.service.ApplyUpdate(c.Context(), req.EntityID, req.Fields, req.TargetSnapshot)
	if err != nil {
		var notCompared *planner.NotComparedError
		if errors.As(err, &notCompared) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		if errors.Is(err, ErrUnknownTarget) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Update apply failed", zap.String("entity_id", req.EntityID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Update recorded",
		zap.String("entity_id", rec.EntityID),
		zap.Strings("fields", rec.Fields),
		zap.String("target", rec.TargetSnapshot),
	)
	return c.JSON(rec)
}

// HandleHistory exports the append-only update history.
// @Summary Update History
// @Description Returns every recorded update intent as JSON.
// @Tags updates
// @Produce json
// @Success 200 {array} planner.UpdateRecord "Update history"
// @Router /updates [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	history := h.service.History()
	if history == nil {
		history = []*planner.UpdateRecord{}
	}
	return c.JSON(history)
}
