package outfits

import (
	"errors"

	"tailor-preview/core/engine"
	"tailor-preview/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the outfit catalog.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the outfit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/outfits")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
	group.Put("/:name", h.HandlePut)
	group.Delete("/:name", h.HandleDelete)
}

// HandleList lists the outfit catalog.
// @Summary List Outfits
// @Description List every stored outfit with its groups.
// @Tags outfits
// @Produce json
// @Success 200 {array} outfits.Summary "Outfits"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /outfits [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	summaries, err := h.service.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summaries)
}

// HandleGet returns an outfit config.
// @Summary Get Outfit
// @Tags outfits
// @Produce json
// @Param name path string true "Outfit name"
// @Success 200 {object} engine.OutfitConfig "Outfit config"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /outfits/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	cfg, err := h.service.Lookup(c.UserContext(), c.Params("name"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cfg)
}

// HandlePut stores an outfit config.
// @Summary Put Outfit
// @Description Create or replace an outfit config.
// @Tags outfits
// @Accept json
// @Produce json
// @Param name path string true "Outfit name"
// @Param config body engine.OutfitConfig true "Outfit config"
// @Success 204 "Saved"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /outfits/{name} [put]
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	var cfg engine.OutfitConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Put(c.UserContext(), c.Params("name"), cfg); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes an outfit.
// @Summary Delete Outfit
// @Tags outfits
// @Param name path string true "Outfit name"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /outfits/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("name")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalid):
		status = fiber.StatusBadRequest
	default:
		logger.WithRayID(h.logger, c).Error("Outfit request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
