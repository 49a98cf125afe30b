package preview

// Config holds the defaults applied to new preview sessions.
type Config struct {
	// QueueCapacity bounds the per-session job queue.
	QueueCapacity int `mapstructure:"queue_capacity" default:"2"`
	// ShowLoader is the default loader overlay toggle.
	ShowLoader bool `mapstructure:"show_loader" default:"true"`
	// ShowErrors is the default error overlay toggle.
	ShowErrors bool `mapstructure:"show_errors" default:"true"`
	// WaitTimeoutSeconds bounds how long the render command waits for a step to settle.
	WaitTimeoutSeconds int `mapstructure:"wait_timeout_seconds" default:"60"`
}
