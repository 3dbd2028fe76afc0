// Package config provides configuration management for the location manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, worker token, body-size ceiling)
//   - Storage: S3/MinIO credentials for the corrections document
//   - Snapshot: snapshot labels, feed base URL, and region codes
//   - Database: MySQL connection for optional update-history persistence
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
