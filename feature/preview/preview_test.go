package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"tailor-preview/core/engine"
	"tailor-preview/core/metrics"
	"tailor-preview/core/preview"
	"tailor-preview/core/storage/mocks"
	"tailor-preview/core/texture"
	"tailor-preview/feature/outfits"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memInstance struct {
	groups map[string]bool

	mu       sync.Mutex
	textures map[string]string
}

func (m *memInstance) SetOptions(engine.Options) {}

func (m *memInstance) ApplyTexture(_ context.Context, group string, cfg texture.Config) error {
	if !m.groups[group] {
		return engine.NewRenderError(engine.OpApply, group, engine.ErrUnknownGroup)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[group] = cfg.ImageSource
	return nil
}

func (m *memInstance) RemoveTexture(_ context.Context, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.textures, group)
	return nil
}

func (m *memInstance) Destroy() {}

type memFactory struct {
	mu        sync.Mutex
	instances []*memInstance
	err       error
}

func (f *memFactory) Create(_ context.Context, cfg engine.OutfitConfig, _ engine.Mount) (engine.Instance, error) {
	if f.err != nil {
		return nil, f.err
	}
	groups := map[string]bool{}
	for g := range cfg.GroupLayers {
		groups[g] = true
	}
	inst := &memInstance{groups: groups, textures: map[string]string{}}
	f.mu.Lock()
	f.instances = append(f.instances, inst)
	f.mu.Unlock()
	return inst, nil
}

type catalog map[string]engine.OutfitConfig

func (c catalog) Lookup(_ context.Context, name string) (engine.OutfitConfig, error) {
	cfg, ok := c[name]
	if !ok {
		return engine.OutfitConfig{}, fmt.Errorf("%w: %s", outfits.ErrNotFound, name)
	}
	return cfg, nil
}

func kurtaSet() engine.OutfitConfig {
	return engine.OutfitConfig{
		Base: engine.BaseImage{Width: 4, Height: 4, ImageSource: "outfits/base.png"},
		GroupLayers: map[string][]engine.MaskLayer{
			"kurta": {{MaskImageSource: "outfits/kurta.png"}},
		},
	}
}

func newTestService(factory engine.Factory, client *mocks.Client, maxSessions int) *Service {
	return NewService(factory, catalog{"kurta-set": kurtaSet()}, client, metrics.New(), zap.NewNop(), Settings{
		Defaults:    preview.Config{QueueCapacity: 2, ShowLoader: true, ShowErrors: true},
		MaxSessions: maxSessions,
		Bucket:      "assets",
		ImageKey:    func(id string) string { return "previews/" + id + ".png" },
	})
}

func TestService_CreateAppliesInitialTextures(t *testing.T) {
	factory := &memFactory{}
	svc := newTestService(factory, new(mocks.Client), 4)
	ctx := context.Background()

	state, err := svc.Create(ctx, CreateRequest{
		OutfitRequest: OutfitRequest{Outfit: "kurta-set"},
		Textures: texture.Map{
			"kurta":   {ImageSource: "textures/silk.png"},
			"dupatta": {ImageSource: "textures/net.png"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "kurta-set", state.Outfit)

	require.NoError(t, svc.Wait(ctx, state.ID))
	got, err := svc.Get(state.ID)
	require.NoError(t, err)
	assert.True(t, got.State.Ready)
	assert.False(t, got.State.Loading)
	assert.Equal(t, []string{`apply "dupatta": unknown group`}, got.State.Errors)
	assert.True(t, got.State.ErrorsVisible)
	assert.Equal(t, map[string]string{"kurta": "textures/silk.png"}, factory.instances[0].textures)
}

func TestService_CreateErrors(t *testing.T) {
	svc := newTestService(&memFactory{}, new(mocks.Client), 1)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Create(ctx, CreateRequest{OutfitRequest: OutfitRequest{Outfit: "lehenga"}})
	assert.ErrorIs(t, err, outfits.ErrNotFound)

	cfg := kurtaSet()
	_, err = svc.Create(ctx, CreateRequest{OutfitRequest: OutfitRequest{Config: &cfg}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateRequest{OutfitRequest: OutfitRequest{Config: &cfg}})
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestService_CreateEngineFailure(t *testing.T) {
	svc := newTestService(&memFactory{err: errors.New("storage unreachable")}, new(mocks.Client), 4)

	_, err := svc.Create(context.Background(), CreateRequest{OutfitRequest: OutfitRequest{Outfit: "kurta-set"}})
	assert.ErrorContains(t, err, "storage unreachable")
	assert.Empty(t, svc.List())
}

func TestService_SetOutfit(t *testing.T) {
	factory := &memFactory{}
	svc := newTestService(factory, new(mocks.Client), 4)
	ctx := context.Background()

	state, err := svc.Create(ctx, CreateRequest{
		OutfitRequest: OutfitRequest{Outfit: "kurta-set"},
		Textures:      texture.Map{"kurta": {ImageSource: "textures/silk.png"}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Wait(ctx, state.ID))

	other := kurtaSet()
	other.Base.ImageSource = "outfits/base-long.png"
	state, err = svc.SetOutfit(ctx, state.ID, OutfitRequest{Outfit: "kurta-long", Config: &other})
	require.NoError(t, err)
	assert.Equal(t, "kurta-long", state.Outfit)

	require.NoError(t, svc.Wait(ctx, state.ID))
	require.Len(t, factory.instances, 2)
	assert.Equal(t, map[string]string{"kurta": "textures/silk.png"}, factory.instances[1].textures)
}

func TestService_Delete(t *testing.T) {
	client := new(mocks.Client)
	svc := newTestService(&memFactory{}, client, 4)
	ctx := context.Background()

	state, err := svc.Create(ctx, CreateRequest{OutfitRequest: OutfitRequest{Outfit: "kurta-set"}})
	require.NoError(t, err)

	client.On("RemoveObject", mock.Anything, "assets", "previews/"+state.ID+".png", mock.Anything).Return(nil)
	require.NoError(t, svc.Delete(ctx, state.ID))
	client.AssertExpectations(t)

	_, err = svc.Get(state.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, state.ID), ErrSessionNotFound)
}

func TestHandler(t *testing.T) {
	client := new(mocks.Client)
	svc := newTestService(&memFactory{}, client, 4)
	app := fiber.New()
	NewHandler(svc, zap.NewNop(), 0).RegisterRoutes(app)

	do := func(method, path string, payload any) (int, []byte) {
		var r io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
		req := httptest.NewRequest(method, path, r)
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, body
	}

	status, body := do("POST", "/previews", map[string]any{"outfit": "kurta-set", "width": "100%"})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var created SessionState
	require.NoError(t, json.Unmarshal(body, &created))
	base := "/previews/" + created.ID

	status, body = do("PUT", base+"/textures", map[string]any{
		"kurta": map[string]any{"imgSrc": "textures/silk.png", "tint": "#aa3355"},
	})
	require.Equal(t, fiber.StatusOK, status, string(body))

	status, body = do("GET", base+"?wait=true", nil)
	require.Equal(t, fiber.StatusOK, status)
	var state SessionState
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, "textures/silk.png", state.Textures["kurta"].ImageSource)
	assert.Equal(t, "#aa3355", state.Textures["kurta"].Attributes["tint"])
	assert.Equal(t, 0, state.State.Queued)

	status, _ = do("PUT", base+"/options", map[string]any{"enhanced": true})
	assert.Equal(t, fiber.StatusOK, status)

	client.On("GetObject", mock.Anything, "assets", "previews/"+created.ID+".png", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("png"))), nil)
	req := httptest.NewRequest("GET", base+"/image", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	status, _ = do("PUT", base+"/outfit", map[string]any{"outfit": "lehenga"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do("POST", "/previews", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do("GET", "/previews/unknown", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	client.On("RemoveObject", mock.Anything, "assets", mock.Anything, mock.Anything).Return(nil)
	status, _ = do("DELETE", base, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body = do("GET", "/previews", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))
}
