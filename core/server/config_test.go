package server_test

import (
	"testing"

	"tailor-preview/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := server.Config{Port: "8080", MaxSessions: 64, BodyLimitKB: 1024}

	tests := []struct {
		name    string
		mutate  func(c *server.Config)
		wantErr string
	}{
		{"Valid", func(c *server.Config) {}, ""},
		{"NonNumericPort", func(c *server.Config) { c.Port = "http" }, "invalid port"},
		{"PortOutOfRange", func(c *server.Config) { c.Port = "70000" }, "invalid port"},
		{"EmptyPort", func(c *server.Config) { c.Port = "" }, "invalid port"},
		{"NoSessions", func(c *server.Config) { c.MaxSessions = 0 }, "max_sessions"},
		{"NoBody", func(c *server.Config) { c.BodyLimitKB = -1 }, "body_limit_kb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
