package preview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"tailor-preview/core/engine"
	"tailor-preview/core/logger"
	"tailor-preview/core/metrics"
	"tailor-preview/core/preview"
	"tailor-preview/core/storage"
	"tailor-preview/core/texture"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("preview session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("too many preview sessions")
	// ErrInvalidRequest is returned for requests without a usable outfit.
	ErrInvalidRequest = errors.New("invalid preview request")
)

// OutfitSource resolves outfit names to configs.
type OutfitSource interface {
	Lookup(ctx context.Context, name string) (engine.OutfitConfig, error)
}

// ImageKeyFunc returns the object key the preview of a session is published under.
type ImageKeyFunc func(sessionID string) string

// OutfitRequest selects an outfit by catalog name or inline config.
// An inline config wins over a name.
type OutfitRequest struct {
	Outfit string               `json:"outfit,omitempty"`
	Config *engine.OutfitConfig `json:"config,omitempty"`
}

// CreateRequest is the payload creating a preview session.
type CreateRequest struct {
	OutfitRequest
	Width      string          `json:"width,omitempty"`
	Height     string          `json:"height,omitempty"`
	Options    *engine.Options `json:"options,omitempty"`
	Textures   texture.Map     `json:"textures,omitempty"`
	ShowLoader *bool           `json:"showLoader,omitempty"`
	ShowErrors *bool           `json:"showErrors,omitempty"`
}

// SessionState is the externally visible state of a session.
type SessionState struct {
	ID        string        `json:"id"`
	Outfit    string        `json:"outfit,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	State     preview.State `json:"state"`
	Textures  texture.Map   `json:"textures"`
}

type session struct {
	id        string
	createdAt time.Time
	preview   *preview.Preview

	mu     sync.Mutex
	outfit string
}

func (s *session) outfitName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outfit
}

// Settings configures a Service.
type Settings struct {
	Defaults    preview.Config
	MaxSessions int
	Bucket      string
	ImageKey    ImageKeyFunc
}

// Service owns the live preview sessions.
type Service struct {
	factory  engine.Factory
	outfits  OutfitSource
	client   storage.Client
	metrics  *metrics.Metrics
	logger   *zap.Logger
	settings Settings

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService creates a new preview session service. outfits may be nil when no
// catalog is available; sessions then need inline configs.
func NewService(factory engine.Factory, outfits OutfitSource, client storage.Client, m *metrics.Metrics, logger *zap.Logger, settings Settings) *Service {
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		factory:  factory,
		outfits:  outfits,
		client:   client,
		metrics:  m,
		logger:   logger,
		settings: settings,
		sessions: map[string]*session{},
	}
}

// Create starts a session and mounts its engine. Textures and options in the
// request are queued before the engine is created and applied once it is ready.
func (s *Service) Create(ctx context.Context, req CreateRequest) (SessionState, error) {
	cfg, name, err := s.resolve(ctx, req.OutfitRequest)
	if err != nil {
		return SessionState{}, err
	}

	id := uuid.NewString()
	l := logger.WithPreview(s.logger, id)
	showLoader, showErrors := s.settings.Defaults.ShowLoader, s.settings.Defaults.ShowErrors
	if req.ShowLoader != nil {
		showLoader = *req.ShowLoader
	}
	if req.ShowErrors != nil {
		showErrors = *req.ShowErrors
	}

	sess := &session{
		id:        id,
		createdAt: time.Now(),
		outfit:    name,
		preview: preview.New(s.factory, l, preview.Settings{
			Mount:         engine.Mount{ID: id, Width: req.Width, Height: req.Height},
			ShowLoader:    showLoader,
			ShowErrors:    showErrors,
			QueueCapacity: s.settings.Defaults.QueueCapacity,
			Hooks: s.metrics.Hooks(preview.Hooks{
				OnError: func(msg string) { l.Warn("Preview error", zap.String("error", msg)) },
			}),
		}),
	}

	s.mu.Lock()
	if s.settings.MaxSessions > 0 && len(s.sessions) >= s.settings.MaxSessions {
		s.mu.Unlock()
		return SessionState{}, fmt.Errorf("%w: limit is %d", ErrTooManySessions, s.settings.MaxSessions)
	}
	s.sessions[id] = sess
	s.mu.Unlock()
	s.metrics.SessionOpened()

	if req.Options != nil {
		_ = sess.preview.SetOptions(*req.Options)
	}
	if req.Textures != nil {
		_ = sess.preview.SetTextures(req.Textures)
	}

	if err := sess.preview.SetOutfit(ctx, cfg); err != nil {
		s.remove(id)
		return SessionState{}, err
	}

	l.Info("Preview session created", zap.String("outfit", name), zap.Int("textures", len(req.Textures)))
	return s.state(sess), nil
}

// Get returns the state of a session.
func (s *Service) Get(id string) (SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionState{}, err
	}
	return s.state(sess), nil
}

// List returns the state of every session, oldest first.
func (s *Service) List() []SessionState {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].createdAt.Before(sessions[j].createdAt)
	})
	states := make([]SessionState, 0, len(sessions))
	for _, sess := range sessions {
		states = append(states, s.state(sess))
	}
	return states
}

// SetTextures replaces the desired texture map of a session.
func (s *Service) SetTextures(id string, textures texture.Map) (SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionState{}, err
	}
	if err := sess.preview.SetTextures(textures); err != nil {
		return SessionState{}, err
	}
	return s.state(sess), nil
}

// SetOptions updates the preview options of a session.
func (s *Service) SetOptions(id string, opts engine.Options) (SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionState{}, err
	}
	if err := sess.preview.SetOptions(opts); err != nil {
		return SessionState{}, err
	}
	return s.state(sess), nil
}

// SetOutfit switches the outfit of a session, rebuilding its engine.
func (s *Service) SetOutfit(ctx context.Context, id string, req OutfitRequest) (SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionState{}, err
	}
	cfg, name, err := s.resolve(ctx, req)
	if err != nil {
		return SessionState{}, err
	}
	if err := sess.preview.SetOutfit(ctx, cfg); err != nil {
		return SessionState{}, err
	}
	sess.mu.Lock()
	sess.outfit = name
	sess.mu.Unlock()
	return s.state(sess), nil
}

// Wait blocks until the session has no pending work or ctx ends.
func (s *Service) Wait(ctx context.Context, id string) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}
	return sess.preview.Wait(ctx)
}

// Image returns the last published PNG of a session.
func (s *Service) Image(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.lookup(id); err != nil {
		return nil, err
	}
	return storage.ReadObject(ctx, s.client, s.settings.Bucket, s.settings.ImageKey(id))
}

// Delete closes a session and removes its published image.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !s.remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	key := s.settings.ImageKey(id)
	if err := s.client.RemoveObject(ctx, s.settings.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		logger.WithPreview(s.logger, id).Warn("Failed to remove preview image", zap.String("key", key), zap.Error(err))
	}
	logger.WithPreview(s.logger, id).Info("Preview session deleted")
	return nil
}

// Close closes every session.
func (s *Service) Close() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		s.remove(id)
	}
}

func (s *Service) remove(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return false
	}
	sess.preview.Close()
	s.metrics.SessionClosed()
	return true
}

func (s *Service) lookup(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *Service) resolve(ctx context.Context, req OutfitRequest) (engine.OutfitConfig, string, error) {
	if req.Config != nil {
		return *req.Config, req.Outfit, nil
	}
	if req.Outfit == "" {
		return engine.OutfitConfig{}, "", fmt.Errorf("%w: outfit name or config is required", ErrInvalidRequest)
	}
	if s.outfits == nil {
		return engine.OutfitConfig{}, "", fmt.Errorf("%w: no outfit catalog configured", ErrInvalidRequest)
	}
	cfg, err := s.outfits.Lookup(ctx, req.Outfit)
	if err != nil {
		return engine.OutfitConfig{}, "", err
	}
	return cfg, req.Outfit, nil
}

func (s *Service) state(sess *session) SessionState {
	return SessionState{
		ID:        sess.id,
		Outfit:    sess.outfitName(),
		CreatedAt: sess.createdAt,
		State:     sess.preview.State(),
		Textures:  sess.preview.Textures(),
	}
}
