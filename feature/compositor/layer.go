package compositor

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"tailor-preview/core/texture"
	"tailor-preview/core/utils"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Texture attributes understood by the compositor.
const (
	AttrTint    = "tint"
	AttrOpacity = "opacity"
	AttrScale   = "scale"
	AttrTile    = "tile"
)

const (
	minScale = 0.05
	maxScale = 20
)

// buildLayer tiles src over bounds according to the texture attributes.
// With tile set to false the texture is stretched over bounds once.
func buildLayer(src image.Image, bounds image.Rectangle, cfg texture.Config) (image.Image, error) {
	scale, err := floatAttr(cfg, AttrScale, 1)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid %s %v", AttrScale, scale)
	}
	scale = utils.Clamp(scale, minScale, maxScale)

	opacity, err := floatAttr(cfg, AttrOpacity, 1)
	if err != nil {
		return nil, err
	}
	opacity = utils.Clamp(opacity, 0, 1)

	size := src.Bounds().Size()
	tileSize := image.Pt(
		max(1, int(math.Round(float64(size.X)*scale))),
		max(1, int(math.Round(float64(size.Y)*scale))),
	)
	if raw, ok := cfg.Attribute(AttrTile); ok && raw != nil && !utils.ToBool(raw) {
		// Untiled textures are stretched over the whole region; scale is ignored.
		tileSize = bounds.Size()
	}
	tile := image.NewRGBA(image.Rectangle{Max: tileSize})
	if tileSize == size {
		draw.Draw(tile, tile.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(tile, tile.Bounds(), src, src.Bounds(), draw.Src, nil)
	}

	if raw, ok := cfg.Attribute(AttrTint); ok && raw != nil {
		tint, err := colorful.Hex(utils.ToString(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", AttrTint, utils.ToString(raw))
		}
		multiply(tile, tint)
	}

	layer := image.NewRGBA(bounds)
	alpha := image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	for y := bounds.Min.Y; y < bounds.Max.Y; y += tileSize.Y {
		for x := bounds.Min.X; x < bounds.Max.X; x += tileSize.X {
			r := image.Rect(x, y, x+tileSize.X, y+tileSize.Y).Intersect(bounds)
			draw.DrawMask(layer, r, tile, image.Point{}, alpha, image.Point{}, draw.Over)
		}
	}
	return layer, nil
}

// multiply tints the premultiplied pixels of img with c.
func multiply(img *image.RGBA, c colorful.Color) {
	r, g, b := utils.Clamp(c.R, 0, 1), utils.Clamp(c.G, 0, 1), utils.Clamp(c.B, 0, 1)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(math.Round(float64(img.Pix[i]) * r))
		img.Pix[i+1] = uint8(math.Round(float64(img.Pix[i+1]) * g))
		img.Pix[i+2] = uint8(math.Round(float64(img.Pix[i+2]) * b))
	}
}

func floatAttr(cfg texture.Config, name string, def float64) (float64, error) {
	raw, ok := cfg.Attribute(name)
	if !ok || raw == nil {
		return def, nil
	}
	v, ok := utils.ToFloat(raw)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %v", name, raw)
	}
	return v, nil
}

// fit scales img to fill r unless it already has the size of r.
func fit(img image.Image, r image.Rectangle) image.Image {
	if img.Bounds().Size() == r.Size() {
		return img
	}
	dst := image.NewRGBA(r)
	draw.ApproxBiLinear.Scale(dst, r, img, img.Bounds(), draw.Src, nil)
	return dst
}

// parseDimension resolves a mount dimension ("", "400", "400px", "50%")
// against the base size.
func parseDimension(s string, base int) (int, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return base, nil
	case strings.HasSuffix(s, "%"):
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || pct <= 0 {
			return 0, fmt.Errorf("invalid dimension %q", s)
		}
		return max(1, int(math.Round(float64(base)*pct/100))), nil
	default:
		n, err := strconv.Atoi(strings.TrimSuffix(s, "px"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid dimension %q", s)
		}
		return n, nil
	}
}
