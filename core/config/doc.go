// Package config provides configuration management for the Object Manager.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file and an optional config.yaml in the working directory.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, upload body limit)
//   - Storage: S3/MinIO endpoint, port, credentials, TLS and key/policy behavior
//   - Log: Logging level and format
//
// Environment variables use the SECTION_KEY form, e.g. STORAGE_ACCESS_KEY or SERVER_PORT.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
