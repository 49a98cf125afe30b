package compositor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"
	"sync"

	"tailor-preview/core/engine"
	"tailor-preview/core/storage"
	"tailor-preview/core/texture"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Instance composites textured groups over an outfit base image and publishes
// the result as a PNG object.
type Instance struct {
	factory *Factory
	outfit  engine.OutfitConfig
	key     string
	bounds  image.Rectangle
	output  image.Point
	logger  *zap.Logger

	base     image.Image
	enhanced image.Image
	masks    map[string][]image.Image

	mu        sync.Mutex
	options   engine.Options
	layers    map[string]image.Image
	destroyed bool
}

var _ engine.Instance = (*Instance)(nil)

// SetOptions stores the options and re-renders the preview.
func (i *Instance) SetOptions(opts engine.Options) {
	if opts.Background != "" {
		if _, err := colorful.Hex(opts.Background); err != nil {
			i.logger.Warn("Ignoring invalid background colour", zap.String("background", opts.Background))
			opts.Background = ""
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed || i.options == opts {
		return
	}
	i.options = opts
	if err := i.renderLocked(context.Background()); err != nil {
		i.logger.Warn("Failed to render options change", zap.Error(err))
	}
}

// ApplyTexture renders cfg into the region of group.
func (i *Instance) ApplyTexture(ctx context.Context, group string, cfg texture.Config) error {
	if err := i.check(engine.OpApply, group); err != nil {
		return err
	}

	src, err := i.factory.loadImage(ctx, cfg.ImageSource)
	if err != nil {
		return i.factory.classify(engine.OpApply, group, err)
	}
	layer, err := buildLayer(src, i.bounds, cfg)
	if err != nil {
		return engine.NewRenderError(engine.OpApply, group, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return engine.NewRenderError(engine.OpApply, group, engine.ErrDestroyed)
	}
	i.layers[group] = layer
	return i.renderLocked(ctx)
}

// RemoveTexture clears the texture of group.
func (i *Instance) RemoveTexture(ctx context.Context, group string) error {
	if err := i.check(engine.OpRemove, group); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return engine.NewRenderError(engine.OpRemove, group, engine.ErrDestroyed)
	}
	if _, ok := i.layers[group]; !ok {
		return nil
	}
	delete(i.layers, group)
	return i.renderLocked(ctx)
}

// Destroy drops every decoded image held by the instance.
// The published preview object is left in place.
func (i *Instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.destroyed {
		return
	}
	i.destroyed = true
	i.layers = nil
	i.masks = nil
	i.base = nil
	i.enhanced = nil
}

func (i *Instance) check(op engine.Op, group string) error {
	i.mu.Lock()
	destroyed := i.destroyed
	i.mu.Unlock()
	if destroyed {
		return engine.NewRenderError(op, group, engine.ErrDestroyed)
	}
	if !i.outfit.HasGroup(group) {
		return engine.NewRenderError(op, group, engine.ErrUnknownGroup)
	}
	return nil
}

func (i *Instance) render(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.renderLocked(ctx)
}

// renderLocked composites and uploads the preview. Holding the lock through the
// upload keeps published objects in composition order.
func (i *Instance) renderLocked(ctx context.Context) error {
	canvas := image.NewRGBA(i.bounds)

	if i.options.Background != "" {
		if bg, err := colorful.Hex(i.options.Background); err == nil {
			draw.Draw(canvas, i.bounds, image.NewUniform(bg), image.Point{}, draw.Src)
		}
	}

	base := i.base
	if i.options.Enhanced && i.enhanced != nil {
		base = i.enhanced
	}
	draw.Draw(canvas, i.bounds, base, i.bounds.Min, draw.Over)

	groups := make([]string, 0, len(i.layers))
	for group := range i.layers {
		groups = append(groups, group)
	}
	sort.Strings(groups)
	for _, group := range groups {
		for _, mask := range i.masks[group] {
			draw.DrawMask(canvas, i.bounds, i.layers[group], i.bounds.Min, mask, i.bounds.Min, draw.Over)
		}
	}

	var out image.Image = canvas
	if i.output != i.bounds.Size() {
		scaled := image.NewRGBA(image.Rectangle{Max: i.output})
		draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), canvas, i.bounds, draw.Src, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return storage.WriteObject(ctx, i.factory.client, i.factory.bucket, i.key, buf.Bytes(), "image/png")
}
