package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// OutfitConfig describes the base imagery of an outfit and its per-group mask layers.
type OutfitConfig struct {
	// Base is the untextured outfit image.
	Base BaseImage `json:"base" yaml:"base"`

	// GroupLayers maps each group to the mask layers that make up its region.
	GroupLayers map[string][]MaskLayer `json:"groupWiseLayers" yaml:"groupWiseLayers"`
}

// BaseImage describes the base outfit image.
type BaseImage struct {
	Width               int    `json:"width" yaml:"width"`
	Height              int    `json:"height" yaml:"height"`
	ImageSource         string `json:"imgSrc" yaml:"imgSrc"`
	EnhancedImageSource string `json:"enhancedImgSrc,omitempty" yaml:"enhancedImgSrc,omitempty"`
}

// MaskLayer is one mask image of a group.
type MaskLayer struct {
	MaskImageSource string `json:"maskImgSrc" yaml:"maskImgSrc"`
}

// Identity returns a value identity for the config. Equal configs share an identity.
func (c OutfitConfig) Identity() uint64 {
	// Struct fields encode in declaration order and map keys sorted, so the
	// encoding is canonical.
	data, err := json.Marshal(c)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// HasGroup reports whether the config defines the given group.
func (c OutfitConfig) HasGroup(group string) bool {
	_, ok := c.GroupLayers[group]
	return ok
}

// Validate checks the config for structural errors.
func (c OutfitConfig) Validate() error {
	var errs []error
	if c.Base.ImageSource == "" {
		errs = append(errs, errors.New("base image source is required"))
	}
	if c.Base.Width <= 0 || c.Base.Height <= 0 {
		errs = append(errs, fmt.Errorf("base dimensions must be positive, got %dx%d", c.Base.Width, c.Base.Height))
	}
	for group, layers := range c.GroupLayers {
		if len(layers) == 0 {
			errs = append(errs, fmt.Errorf("group %q has no mask layers", group))
		}
		for i, layer := range layers {
			if layer.MaskImageSource == "" {
				errs = append(errs, fmt.Errorf("group %q layer %d has no mask image source", group, i))
			}
		}
	}
	return errors.Join(errs...)
}
