package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// MaxSessions caps the number of live preview sessions.
	MaxSessions int `mapstructure:"max_sessions" default:"64"`
	// BodyLimitKB caps request bodies (outfit configs and texture maps).
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"1024"`
}

// Validate checks the server configuration.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.MaxSessions)
	}
	if c.BodyLimitKB <= 0 {
		return fmt.Errorf("body_limit_kb must be positive, got %d", c.BodyLimitKB)
	}
	return nil
}
