package auth_test

import (
	"net/http/httptest"
	"testing"

	"tailor-preview/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	newApp := func(key string) *fiber.App {
		app := fiber.New()
		app.Use(auth.New(auth.Config{ApiKey: key, Skip: []string{"/metrics"}}))
		ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
		app.Get("/previews", ok)
		app.Get("/metrics", ok)
		return app
	}

	tests := []struct {
		name   string
		key    string
		path   string
		header string
		want   int
	}{
		{"Disabled", "", "/previews", "", fiber.StatusOK},
		{"Missing", "secret", "/previews", "", fiber.StatusUnauthorized},
		{"Wrong", "secret", "/previews", "nope", fiber.StatusUnauthorized},
		{"Valid", "secret", "/previews", "secret", fiber.StatusOK},
		{"Skipped", "secret", "/metrics", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := newApp(tt.key).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
