package engine

// Config holds configuration for the rendering engine.
type Config struct {
	// OutputPrefix is the storage prefix rendered previews are written under.
	OutputPrefix string `mapstructure:"output_prefix" default:"previews"`
	// ImageCacheSize is the number of decoded source images kept in memory.
	ImageCacheSize int `mapstructure:"image_cache_size" default:"128"`
	// MaxDimension caps the base image width and height in pixels.
	MaxDimension int `mapstructure:"max_dimension" default:"4096"`
	// LoadTimeoutSeconds bounds a shared source image download.
	LoadTimeoutSeconds int `mapstructure:"load_timeout_seconds" default:"30"`
}
