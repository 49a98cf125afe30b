package preview

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new preview session feature.
func NewFeature(service *Service, logger *zap.Logger, waitTimeout time.Duration) *Feature {
	return &Feature{service: service, handler: NewHandler(service, logger, waitTimeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "previews"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
