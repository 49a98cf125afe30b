package engine

import (
	"context"

	"tailor-preview/core/texture"
)

// Instance is a live renderer bound to one outfit config and one mount.
type Instance interface {
	// SetOptions updates preview options. It is synchronous and idempotent.
	SetOptions(opts Options)

	// ApplyTexture applies a texture to a group.
	// It fails with a *RenderError if the group is unknown or the texture is invalid.
	ApplyTexture(ctx context.Context, group string, cfg texture.Config) error

	// RemoveTexture clears the texture of a group.
	// It fails with a *RenderError if the group is unknown.
	RemoveTexture(ctx context.Context, group string) error

	// Destroy releases every resource held by the instance. It is idempotent.
	Destroy()
}

// Factory creates engine instances.
type Factory interface {
	// Create loads the outfit config and binds a new instance to the mount.
	// Invalid configs and mount failures are reported as *RenderError.
	Create(ctx context.Context, cfg OutfitConfig, mount Mount) (Instance, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, cfg OutfitConfig, mount Mount) (Instance, error)

// Create calls f.
func (f FactoryFunc) Create(ctx context.Context, cfg OutfitConfig, mount Mount) (Instance, error) {
	return f(ctx, cfg, mount)
}

// Mount is the target an instance renders into.
type Mount struct {
	// ID identifies the target (e.g. the preview session ID).
	ID string `json:"id"`

	// Width and Height are CSS-like dimensions ("100%", "400px").
	Width  string `json:"width"`
	Height string `json:"height"`
}

// Options are engine preview options.
type Options struct {
	// Enhanced renders on top of the enhanced base image when available.
	Enhanced bool `json:"enhanced" yaml:"enhanced"`

	// Background is a hex colour painted behind the base image. Empty keeps it transparent.
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
}
