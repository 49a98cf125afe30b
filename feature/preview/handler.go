package preview

import (
	"context"
	"errors"
	"time"

	"tailor-preview/core/engine"
	"tailor-preview/core/logger"
	"tailor-preview/core/preview"
	"tailor-preview/core/storage"
	"tailor-preview/core/texture"
	"tailor-preview/feature/outfits"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for preview sessions.
type Handler struct {
	service     *Service
	logger      *zap.Logger
	waitTimeout time.Duration
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger, waitTimeout time.Duration) *Handler {
	if waitTimeout <= 0 {
		waitTimeout = time.Minute
	}
	return &Handler{service: service, logger: logger, waitTimeout: waitTimeout}
}

// RegisterRoutes registers the preview routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/previews")
	group.Post("/", h.HandleCreate)
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Put("/:id/textures", h.HandleSetTextures)
	group.Put("/:id/options", h.HandleSetOptions)
	group.Put("/:id/outfit", h.HandleSetOutfit)
	group.Get("/:id/image", h.HandleImage)
	group.Delete("/:id", h.HandleDelete)
}

// HandleCreate creates a preview session.
// @Summary Create Preview
// @Description Create a preview session for a catalog outfit or an inline outfit config.
// @Tags previews
// @Accept json
// @Produce json
// @Param request body preview.CreateRequest true "Session request"
// @Success 201 {object} preview.SessionState "Created session"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Outfit Not Found"
// @Failure 429 {object} map[string]string "Too Many Sessions"
// @Router /previews [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	state, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

// HandleList lists the live sessions.
// @Summary List Previews
// @Tags previews
// @Produce json
// @Success 200 {array} preview.SessionState "Sessions"
// @Router /previews [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleGet returns the state of a session. With ?wait=true it first waits
// for pending work to settle.
// @Summary Get Preview
// @Tags previews
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query bool false "Wait for pending jobs"
// @Success 200 {object} preview.SessionState "Session"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	if err := h.wait(c); err != nil {
		return h.fail(c, err)
	}
	state, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandleSetTextures replaces the texture map of a session.
// @Summary Set Textures
// @Description Replace the desired group to texture map. A null texture clears the group.
// @Tags previews
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param textures body map[string]texture.Config true "Texture map"
// @Success 200 {object} preview.SessionState "Session"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id}/textures [put]
func (h *Handler) HandleSetTextures(c *fiber.Ctx) error {
	var textures texture.Map
	if err := c.BodyParser(&textures); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	state, err := h.service.SetTextures(c.Params("id"), textures)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandleSetOptions updates the preview options of a session.
// @Summary Set Options
// @Tags previews
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param options body engine.Options true "Options"
// @Success 200 {object} preview.SessionState "Session"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id}/options [put]
func (h *Handler) HandleSetOptions(c *fiber.Ctx) error {
	var opts engine.Options
	if err := c.BodyParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	state, err := h.service.SetOptions(c.Params("id"), opts)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandleSetOutfit switches the outfit of a session.
// @Summary Set Outfit
// @Tags previews
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param outfit body preview.OutfitRequest true "Outfit"
// @Success 200 {object} preview.SessionState "Session"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id}/outfit [put]
func (h *Handler) HandleSetOutfit(c *fiber.Ctx) error {
	var req OutfitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	state, err := h.service.SetOutfit(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(state)
}

// HandleImage returns the last published preview image.
// @Summary Get Preview Image
// @Tags previews
// @Produce png
// @Param id path string true "Session ID"
// @Param wait query bool false "Wait for pending jobs"
// @Success 200 {file} binary "PNG image"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id}/image [get]
func (h *Handler) HandleImage(c *fiber.Ctx) error {
	if err := h.wait(c); err != nil {
		return h.fail(c, err)
	}
	data, err := h.service.Image(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(data)
}

// HandleDelete closes a session.
// @Summary Delete Preview
// @Tags previews
// @Param id path string true "Session ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /previews/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) wait(c *fiber.Ctx) error {
	if !c.QueryBool("wait") {
		return nil
	}
	ctx, cancel := context.WithTimeout(c.UserContext(), h.waitTimeout)
	defer cancel()
	return h.service.Wait(ctx, c.Params("id"))
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, outfits.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrTooManySessions):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, preview.ErrClosed):
		status = fiber.StatusGone
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	default:
		logger.WithRayID(h.logger, c).Error("Preview request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
