package storage

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the S3-compatible store holding outfit images,
// textures and rendered previews.
type Config struct {
	// Endpoint is the host (and optional scheme) of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey and SecretKey are the static credentials.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL forces TLS. An https:// endpoint enables it as well.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds source images and the previews prefix.
	Bucket string `mapstructure:"bucket" default:"assets"`
	// Region of the bucket, empty for the server default.
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds dialing, TLS handshakes and the first response byte.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Validate checks the storage configuration.
func (c Config) Validate() error {
	var errs []error
	if c.host() == "" {
		errs = append(errs, errors.New("storage endpoint is required"))
	}
	if c.Bucket == "" {
		errs = append(errs, errors.New("storage bucket is required"))
	}
	return errors.Join(errs...)
}

// host strips the scheme minio expects to be absent.
func (c Config) host() string {
	endpoint := strings.TrimPrefix(c.Endpoint, "http://")
	return strings.TrimPrefix(endpoint, "https://")
}

func (c Config) secure() bool {
	return c.UseSSL || strings.HasPrefix(c.Endpoint, "https://")
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
