package compositor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"testing/iotest"

	"tailor-preview/core/engine"
	"tailor-preview/core/storage"
	"tailor-preview/core/storage/mocks"
	"tailor-preview/core/texture"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

func solid(w, h int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return encode(img)
}

// leftHalf is a mask covering the left half of a w x h image.
func leftHalf(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	return encode(img)
}

func encode(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// bucketFixture serves objects from memory and records published previews.
type bucketFixture struct {
	client *mocks.Client

	mu       sync.Mutex
	previews map[string]image.Image
}

func newBucketFixture(objects map[string][]byte) *bucketFixture {
	f := &bucketFixture{client: new(mocks.Client), previews: map[string]image.Image{}}
	for key, data := range objects {
		data := data
		f.client.On("GetObject", mock.Anything, "assets", key, mock.Anything).
			Return(func() io.ReadCloser { return io.NopCloser(bytes.NewReader(data)) }, nil)
	}
	f.client.On("GetObject", mock.Anything, "assets", mock.Anything, mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "missing"})
	f.client.On("PutObject", mock.Anything, "assets", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, _ := io.ReadAll(args.Get(3).(io.Reader))
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				panic(err)
			}
			f.mu.Lock()
			f.previews[args.String(2)] = img
			f.mu.Unlock()
		}).
		Return(minio.UploadInfo{}, nil)
	return f
}

func (f *bucketFixture) preview(key string) image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.previews[key]
}

func pixel(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func testOutfit() engine.OutfitConfig {
	return engine.OutfitConfig{
		Base: engine.BaseImage{Width: 4, Height: 4, ImageSource: "outfits/base.png"},
		GroupLayers: map[string][]engine.MaskLayer{
			"kurta": {{MaskImageSource: "outfits/kurta-mask.png"}},
		},
	}
}

func testObjects() map[string][]byte {
	return map[string][]byte{
		"outfits/base.png":       solid(4, 4, white),
		"outfits/kurta-mask.png": leftHalf(4, 4),
		"textures/red.png":       solid(2, 2, red),
		"textures/white.png":     solid(2, 2, white),
		"textures/broken.png":    []byte("not an image"),
	}
}

func newTestFactory(t *testing.T, fx *bucketFixture) *Factory {
	t.Helper()
	f, err := NewFactory(fx.client, "assets", engine.Config{OutputPrefix: "previews", ImageCacheSize: 16, MaxDimension: 64}, nil)
	require.NoError(t, err)
	return f
}

func create(t *testing.T, f *Factory, mount engine.Mount) *Instance {
	t.Helper()
	inst, err := f.Create(context.Background(), testOutfit(), mount)
	require.NoError(t, err)
	return inst.(*Instance)
}

func TestCreate_RendersBase(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)

	create(t, f, engine.Mount{ID: "p1"})

	img := fx.preview("previews/p1.png")
	require.NotNil(t, img)
	assert.Equal(t, image.Pt(4, 4), img.Bounds().Size())
	assert.Equal(t, white, pixel(img, 0, 0))
}

func TestCreate_MountDimensions(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)

	create(t, f, engine.Mount{ID: "p1", Width: "8px", Height: "50%"})

	img := fx.preview("previews/p1.png")
	require.NotNil(t, img)
	assert.Equal(t, image.Pt(8, 2), img.Bounds().Size())
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name       string
		outfit     func(c *engine.OutfitConfig)
		mount      engine.Mount
		wantRender bool
	}{
		{"InvalidConfig", func(c *engine.OutfitConfig) { c.Base.ImageSource = "" }, engine.Mount{ID: "p"}, true},
		{"TooLarge", func(c *engine.OutfitConfig) { c.Base.Width = 1000 }, engine.Mount{ID: "p"}, true},
		{"BadMount", func(c *engine.OutfitConfig) {}, engine.Mount{ID: "p", Width: "wide"}, true},
		{"MissingBase", func(c *engine.OutfitConfig) { c.Base.ImageSource = "outfits/none.png" }, engine.Mount{ID: "p"}, true},
		{"MissingMask", func(c *engine.OutfitConfig) {
			c.GroupLayers["kurta"] = []engine.MaskLayer{{MaskImageSource: "outfits/none.png"}}
		}, engine.Mount{ID: "p"}, true},
		{"UndecodableBase", func(c *engine.OutfitConfig) { c.Base.ImageSource = "textures/broken.png" }, engine.Mount{ID: "p"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newBucketFixture(testObjects())
			f := newTestFactory(t, fx)
			cfg := testOutfit()
			tt.outfit(&cfg)

			inst, err := f.Create(context.Background(), cfg, tt.mount)
			assert.Nil(t, inst)
			require.Error(t, err)
			assert.Equal(t, tt.wantRender, engine.IsRenderError(err))
		})
	}
}

func TestCreate_StorageErrorIsUntyped(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetObject", mock.Anything, "assets", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))
	f, err := NewFactory(client, "assets", engine.Config{}, nil)
	require.NoError(t, err)

	_, err = f.Create(context.Background(), testOutfit(), engine.Mount{ID: "p"})
	require.Error(t, err)
	assert.False(t, engine.IsRenderError(err))
	assert.ErrorContains(t, err, "connection refused")
}

func TestCreate_CachesImages(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)

	create(t, f, engine.Mount{ID: "p1"})
	create(t, f, engine.Mount{ID: "p2"})

	// base + mask, loaded once.
	fx.client.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestLoadImage_CancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	client := new(mocks.Client)
	started := make(chan struct{})
	release := make(chan struct{})
	data := solid(2, 2, red)

	var loadCtx context.Context
	client.On("GetObject", mock.Anything, "assets", "textures/red.png", mock.Anything).
		Run(func(args mock.Arguments) {
			loadCtx = args.Get(0).(context.Context)
			close(started)
		}).
		Return(func() io.ReadCloser {
			<-release
			if err := loadCtx.Err(); err != nil {
				return io.NopCloser(iotest.ErrReader(err))
			}
			return io.NopCloser(bytes.NewReader(data))
		}, nil).
		Once()

	f, err := NewFactory(client, "assets", engine.Config{}, nil)
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := f.loadImage(ctxA, "textures/red.png")
		errA <- err
	}()
	<-started

	type result struct {
		img image.Image
		err error
	}
	resB := make(chan result, 1)
	go func() {
		img, err := f.loadImage(context.Background(), "textures/red.png")
		resB <- result{img, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	res := <-resB
	require.NoError(t, res.err)
	assert.Equal(t, red, pixel(res.img, 0, 0))
	client.AssertNumberOfCalls(t, "GetObject", 1)
}

func TestApplyTexture(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})
	ctx := context.Background()

	require.NoError(t, inst.ApplyTexture(ctx, "kurta", texture.Config{ImageSource: "textures/red.png"}))

	img := fx.preview("previews/p1.png")
	assert.Equal(t, red, pixel(img, 0, 0))
	assert.Equal(t, red, pixel(img, 1, 3))
	assert.Equal(t, white, pixel(img, 3, 0))

	require.NoError(t, inst.RemoveTexture(ctx, "kurta"))
	assert.Equal(t, white, pixel(fx.preview("previews/p1.png"), 0, 0))
}

func TestApplyTexture_Tint(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})

	cfg := texture.Config{ImageSource: "textures/white.png", Attributes: map[string]any{"tint": "#00ff00"}}
	require.NoError(t, inst.ApplyTexture(context.Background(), "kurta", cfg))
	assert.Equal(t, green, pixel(fx.preview("previews/p1.png"), 0, 0))
}

func TestApplyTexture_Opacity(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})

	cfg := texture.Config{ImageSource: "textures/red.png", Attributes: map[string]any{"opacity": 0.0}}
	require.NoError(t, inst.ApplyTexture(context.Background(), "kurta", cfg))
	assert.Equal(t, white, pixel(fx.preview("previews/p1.png"), 0, 0))
}

func TestApplyTexture_Errors(t *testing.T) {
	tests := []struct {
		name    string
		group   string
		cfg     texture.Config
		wantIs  error
		wantMsg string
	}{
		{"UnknownGroup", "dupatta", texture.Config{ImageSource: "textures/red.png"}, engine.ErrUnknownGroup, `apply "dupatta": unknown group`},
		{"MissingTexture", "kurta", texture.Config{ImageSource: "textures/none.png"}, storage.ErrNotFound, `apply "kurta"`},
		{"BadTint", "kurta", texture.Config{ImageSource: "textures/red.png", Attributes: map[string]any{"tint": "blue"}}, nil, "invalid tint"},
		{"BadScale", "kurta", texture.Config{ImageSource: "textures/red.png", Attributes: map[string]any{"scale": "big"}}, nil, "invalid scale"},
		{"NegativeScale", "kurta", texture.Config{ImageSource: "textures/red.png", Attributes: map[string]any{"scale": -1.0}}, nil, "invalid scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newBucketFixture(testObjects())
			f := newTestFactory(t, fx)
			inst := create(t, f, engine.Mount{ID: "p1"})

			err := inst.ApplyTexture(context.Background(), tt.group, tt.cfg)
			require.Error(t, err)
			assert.True(t, engine.IsRenderError(err))
			assert.ErrorContains(t, err, tt.wantMsg)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestBuildLayer_Tile(t *testing.T) {
	// 4x4 texture with a red top-left quadrant.
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, white)
			if x < 2 && y < 2 {
				src.Set(x, y, red)
			}
		}
	}
	bounds := image.Rect(0, 0, 8, 8)

	tiled, err := buildLayer(src, bounds, texture.Config{ImageSource: "t.png"})
	require.NoError(t, err)
	assert.Equal(t, red, pixel(tiled, 5, 5))
	assert.Equal(t, white, pixel(tiled, 7, 7))

	for _, off := range []any{false, "false", 0} {
		stretched, err := buildLayer(src, bounds, texture.Config{ImageSource: "t.png", Attributes: map[string]any{AttrTile: off}})
		require.NoError(t, err)
		assert.Less(t, pixel(stretched, 1, 1).G, uint8(40), "tile=%v", off)
		assert.Greater(t, pixel(stretched, 5, 5).G, uint8(230), "tile=%v", off)
	}
}

func TestRemoveTexture_UnknownGroup(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})

	err := inst.RemoveTexture(context.Background(), "dupatta")
	assert.ErrorIs(t, err, engine.ErrUnknownGroup)
}

func TestSetOptions_Background(t *testing.T) {
	objects := testObjects()
	objects["outfits/base.png"] = solid(4, 4, color.RGBA{})
	fx := newBucketFixture(objects)
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})

	inst.SetOptions(engine.Options{Background: "#ff0000"})
	assert.Equal(t, red, pixel(fx.preview("previews/p1.png"), 3, 3))

	// Invalid colours are dropped.
	inst.SetOptions(engine.Options{Background: "nope"})
	assert.Equal(t, color.RGBA{}, pixel(fx.preview("previews/p1.png"), 3, 3))
}

func TestSetOptions_Enhanced(t *testing.T) {
	objects := testObjects()
	objects["outfits/enhanced.png"] = solid(4, 4, green)
	fx := newBucketFixture(objects)
	f := newTestFactory(t, fx)

	cfg := testOutfit()
	cfg.Base.EnhancedImageSource = "outfits/enhanced.png"
	inst, err := f.Create(context.Background(), cfg, engine.Mount{ID: "p1"})
	require.NoError(t, err)

	assert.Equal(t, white, pixel(fx.preview("previews/p1.png"), 3, 3))
	inst.SetOptions(engine.Options{Enhanced: true})
	assert.Equal(t, green, pixel(fx.preview("previews/p1.png"), 3, 3))
}

func TestDestroy(t *testing.T) {
	fx := newBucketFixture(testObjects())
	f := newTestFactory(t, fx)
	inst := create(t, f, engine.Mount{ID: "p1"})

	inst.Destroy()
	inst.Destroy()

	err := inst.ApplyTexture(context.Background(), "kurta", texture.Config{ImageSource: "textures/red.png"})
	assert.ErrorIs(t, err, engine.ErrDestroyed)
	assert.ErrorIs(t, inst.RemoveTexture(context.Background(), "kurta"), engine.ErrDestroyed)
	inst.SetOptions(engine.Options{Enhanced: true})
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 300, false},
		{"400", 400, false},
		{"400px", 400, false},
		{" 120px ", 120, false},
		{"100%", 300, false},
		{"50%", 150, false},
		{"0", 0, true},
		{"-5px", 0, true},
		{"0%", 0, true},
		{"auto", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDimension(tt.in, 300)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
