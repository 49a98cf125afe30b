// Package config provides configuration management for the preview service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, session cap)
//   - Database: outfit catalog connection details (MySQL or SQLite)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Engine: render output prefix and image cache size
//   - Preview: queue capacity and overlay defaults for new sessions
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
