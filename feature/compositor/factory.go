package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"time"

	"tailor-preview/core/engine"
	"tailor-preview/core/storage"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/singleflight"
)

var errInvalidImage = errors.New("invalid image")

// Factory creates compositor instances backed by object storage.
type Factory struct {
	client storage.Client
	bucket string
	cfg    engine.Config
	logger *zap.Logger

	cache *lru.Cache[string, image.Image]
	group singleflight.Group
}

// NewFactory creates a Factory reading sources from and writing previews to bucket.
func NewFactory(client storage.Client, bucket string, cfg engine.Config, logger *zap.Logger) (*Factory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	size := cfg.ImageCacheSize
	if size <= 0 {
		size = 128
	}
	if cfg.MaxDimension <= 0 {
		cfg.MaxDimension = 4096
	}
	if cfg.LoadTimeoutSeconds <= 0 {
		cfg.LoadTimeoutSeconds = 30
	}
	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = "previews"
	}
	cache, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &Factory{
		client: client,
		bucket: bucket,
		cfg:    cfg,
		logger: logger,
		cache:  cache,
	}, nil
}

// OutputKey returns the object key the preview of a mount is written to.
func OutputKey(prefix, mountID string) string {
	return path.Join(prefix, mountID+".png")
}

// OutputKey returns the object key the preview of a mount is written to.
func (f *Factory) OutputKey(mountID string) string {
	return OutputKey(f.cfg.OutputPrefix, mountID)
}

// Create loads the outfit imagery and renders the untextured preview.
// Missing or undecodable images and invalid configs fail with *engine.RenderError.
// Storage failures are returned as is.
func (f *Factory) Create(ctx context.Context, cfg engine.OutfitConfig, mount engine.Mount) (engine.Instance, error) {
	fail := func(err error) error {
		return engine.NewRenderError(engine.OpCreate, "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fail(err)
	}
	if cfg.Base.Width > f.cfg.MaxDimension || cfg.Base.Height > f.cfg.MaxDimension {
		return nil, fail(fmt.Errorf("base dimensions %dx%d exceed %d", cfg.Base.Width, cfg.Base.Height, f.cfg.MaxDimension))
	}
	width, err := parseDimension(mount.Width, cfg.Base.Width)
	if err != nil {
		return nil, fail(err)
	}
	height, err := parseDimension(mount.Height, cfg.Base.Height)
	if err != nil {
		return nil, fail(err)
	}
	if width > f.cfg.MaxDimension || height > f.cfg.MaxDimension {
		return nil, fail(fmt.Errorf("mount dimensions %dx%d exceed %d", width, height, f.cfg.MaxDimension))
	}

	bounds := image.Rect(0, 0, cfg.Base.Width, cfg.Base.Height)
	inst := &Instance{
		factory: f,
		outfit:  cfg,
		key:     f.OutputKey(mount.ID),
		bounds:  bounds,
		output:  image.Pt(width, height),
		masks:   make(map[string][]image.Image, len(cfg.GroupLayers)),
		layers:  map[string]image.Image{},
		logger:  f.logger.With(zap.String("mount", mount.ID)),
	}

	base, err := f.loadImage(ctx, cfg.Base.ImageSource)
	if err != nil {
		return nil, f.classify(engine.OpCreate, "", err)
	}
	inst.base = fit(base, bounds)

	if cfg.Base.EnhancedImageSource != "" {
		enhanced, err := f.loadImage(ctx, cfg.Base.EnhancedImageSource)
		if err != nil {
			return nil, f.classify(engine.OpCreate, "", err)
		}
		inst.enhanced = fit(enhanced, bounds)
	}

	for group, layers := range cfg.GroupLayers {
		for _, layer := range layers {
			mask, err := f.loadImage(ctx, layer.MaskImageSource)
			if err != nil {
				return nil, f.classify(engine.OpCreate, group, err)
			}
			inst.masks[group] = append(inst.masks[group], fit(mask, bounds))
		}
	}

	if err := inst.render(ctx); err != nil {
		return nil, err
	}
	f.logger.Debug("Created compositor instance",
		zap.String("mount", mount.ID),
		zap.Int("groups", len(cfg.GroupLayers)),
		zap.Int("width", width),
		zap.Int("height", height))
	return inst, nil
}

// loadImage returns the decoded image stored under key.
// Concurrent loads of one key share a single download. The download is detached
// from the caller that started it; each caller only stops waiting when its own
// ctx ends.
func (f *Factory) loadImage(ctx context.Context, key string) (image.Image, error) {
	key = strings.TrimPrefix(key, "/")
	if img, ok := f.cache.Get(key); ok {
		return img, nil
	}

	ch := f.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(f.cfg.LoadTimeoutSeconds)*time.Second)
		defer cancel()

		data, err := storage.ReadObject(loadCtx, f.client, f.bucket, key)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", errInvalidImage, key, err)
		}
		f.cache.Add(key, img)
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// classify turns missing and undecodable images into render errors.
func (f *Factory) classify(op engine.Op, group string, err error) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, errInvalidImage) {
		return engine.NewRenderError(op, group, err)
	}
	return err
}
