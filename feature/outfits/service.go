package outfits

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"tailor-preview/core/engine"

	"go.uber.org/zap"
)

// ErrInvalid is returned for outfit names or configs that cannot be stored.
var ErrInvalid = errors.New("invalid outfit")

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,127}$`)

// Service manages the outfit catalog.
type Service struct {
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new outfit service.
func NewService(repo *Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns a summary of every outfit.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	outfits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(outfits))
	for _, o := range outfits {
		cfg, err := o.Decode()
		if err != nil {
			s.logger.Warn("Skipping corrupt outfit", zap.String("outfit", o.Name), zap.Error(err))
			continue
		}
		summaries = append(summaries, summarize(o, cfg))
	}
	return summaries, nil
}

// Lookup returns the config of the named outfit.
func (s *Service) Lookup(ctx context.Context, name string) (engine.OutfitConfig, error) {
	o, err := s.repo.Get(ctx, name)
	if err != nil {
		return engine.OutfitConfig{}, err
	}
	return o.Decode()
}

// Put validates and stores cfg under name.
func (s *Service) Put(ctx context.Context, name string, cfg engine.OutfitConfig) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name %q must match %s", ErrInvalid, name, namePattern)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode outfit %s: %w", name, err)
	}
	if err := s.repo.Save(ctx, &Outfit{Name: name, Config: string(data)}); err != nil {
		return err
	}
	s.logger.Info("Outfit saved", zap.String("outfit", name), zap.Int("groups", len(cfg.GroupLayers)))
	return nil
}

// Delete removes the named outfit.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info("Outfit deleted", zap.String("outfit", name))
	return nil
}
