package outfits

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	repo    *Repository
	service *Service
	handler *Handler
}

// NewFeature creates a new outfit catalog feature.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	repo := NewRepository(db)
	svc := NewService(repo, logger)
	return &Feature{repo: repo, service: svc, handler: NewHandler(svc, logger)}
}

// Service returns the catalog service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "outfits"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.repo.db != nil
}

// Load migrates the catalog and registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.repo.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
