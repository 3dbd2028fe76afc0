package corrections

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"location-manager/core/logger"
	"location-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderLastModified carries the HTTP-date derived from the stored version so
// clients can cheaply detect staleness.
const HeaderLastModified = "X-Last-Modified"

// Handler handles HTTP requests for the correction store.
type Handler struct {
	service *Service
	cfg     server.Config
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, cfg server.Config, logger *zap.Logger) *Handler {
	return &Handler{service: service, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the corrections endpoint for all methods; the
// handler itself dispatches per method so unsupported verbs get a 405 instead
// of a routing 404.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.All("/corrections", h.Handle)
}

// Handle dispatches one request against the corrections document.
// Every response, including errors, carries permissive CORS headers.
func (h *Handler) Handle(c *fiber.Ctx) error {
	setCORSHeaders(c)

	switch c.Method() {
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusNoContent)
	case fiber.MethodGet:
		return h.handleGet(c)
	case fiber.MethodPut:
		return h.handlePut(c)
	case fiber.MethodPatch:
		return h.handlePatch(c)
	default:
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
			"error": "method not allowed",
		})
	}
}

// handleGet serves the current corrections document.
// @Summary Get Corrections
// @Description Returns the full corrections document and its version. Supports conditional retrieval via If-None-Match.
// @Tags corrections
// @Produce json
// @Success 200 {object} corrections.Document "Current corrections"
// @Success 304 {string} string "Not Modified"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /corrections [get]
func (h *Handler) handleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	doc, err := h.service.Get(c.Context())
	if err != nil {
		return h.respondError(c, l, err)
	}

	version := strconv.FormatInt(doc.Version, 10)
	if match := strings.Trim(c.Get(fiber.HeaderIfNoneMatch), `"`); match != "" && match == version {
		return c.SendStatus(fiber.StatusNotModified)
	}

	setVersionHeaders(c, doc.Version)
	return c.JSON(doc)
}

// handlePut replaces the corrections document wholesale.
// @Summary Replace Corrections
// @Description Overwrites the stored corrections with the request body. Accepts the composite-key mapping or the legacy array encoding.
// @Tags corrections
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool "ok"
// @Failure 400 {object} map[string]string "Invalid Payload"
// @Failure 413 {object} map[string]string "Payload Too Large"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /corrections [put]
func (h *Handler) handlePut(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	body, err := h.readBody(c)
	if err != nil {
		return h.respondError(c, l, err)
	}

	mapping, err := DecodeReplacement(body)
	if err != nil {
		return h.respondError(c, l, err)
	}

	if _, err := h.service.Replace(c.Context(), mapping); err != nil {
		return h.respondError(c, l, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// handlePatch merges a partial delta into the corrections document.
// @Summary Merge Corrections Delta
// @Description Merges the request body into the stored corrections key by key; a null value deletes its key. Echoes the merged count and resulting document.
// @Tags corrections
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Merge result"
// @Failure 400 {object} map[string]string "Invalid Payload"
// @Failure 413 {object} map[string]string "Payload Too Large"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /corrections [patch]
func (h *Handler) handlePatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	body, err := h.readBody(c)
	if err != nil {
		return h.respondError(c, l, err)
	}

	delta, err := DecodeDelta(body)
	if err != nil {
		return h.respondError(c, l, err)
	}

	merged, doc, err := h.service.Merge(c.Context(), delta)
	if err != nil {
		return h.respondError(c, l, err)
	}

	setVersionHeaders(c, doc.Version)
	return c.JSON(fiber.Map{
		"ok":      true,
		"merged":  merged,
		"current": doc.Current,
		"version": doc.Version,
	})
}

// readBody returns the raw body after enforcing the size ceiling. The check
// runs before any JSON parsing is attempted.
func (h *Handler) readBody(c *fiber.Ctx) ([]byte, error) {
	body := c.Body()
	limit := h.cfg.MaxBodyBytes
	if limit > 0 && len(body) > limit {
		return nil, &PayloadTooLargeError{Size: len(body), Limit: limit}
	}
	return body, nil
}

// respondError maps the error taxonomy onto HTTP statuses. Anything
// unclassified surfaces as 500 with the message only, never a stack trace.
func (h *Handler) respondError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var invalid *InvalidPayloadError
	var tooLarge *PayloadTooLargeError
	var persistence *PersistenceError

	switch {
	case errors.As(err, &invalid):
		l.Warn("Rejected corrections payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &tooLarge):
		l.Warn("Rejected oversized corrections payload", zap.Error(err))
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &persistence):
		l.Error("Corrections store unavailable", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	default:
		l.Error("Corrections request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// setCORSHeaders stamps the permissive CORS policy onto a response. Preflight
// is answered unconditionally; there is no method-level gating beyond the
// standard verbs.
func setCORSHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderAccessControlAllowMethods, "GET, PUT, PATCH, OPTIONS")
	c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type, If-None-Match, X-Worker-Token, X-Ray-ID")
	c.Set(fiber.HeaderAccessControlExposeHeaders, "ETag, X-Last-Modified, X-Ray-ID")
	c.Set(fiber.HeaderAccessControlMaxAge, "86400")
}

// setVersionHeaders stamps the version and its derived HTTP-date.
func setVersionHeaders(c *fiber.Ctx, version int64) {
	c.Set(fiber.HeaderETag, strconv.FormatInt(version, 10))
	c.Set(HeaderLastModified, time.UnixMilli(version).UTC().Format(http.TimeFormat))
}
