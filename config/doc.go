// Package config provides configuration loading and validation for Libris.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (LIBRIS_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with LIBRIS_ prefix:
//   - server.port → LIBRIS_SERVER_PORT
//   - database.type → LIBRIS_DATABASE_TYPE
//   - auth.jwt_secret → LIBRIS_AUTH_JWT_SECRET
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: HTTP listener port
//   - Service: staging directory, per-file upload ceiling, compensation timeout
//   - Database: type, DSN, and table names
//   - Storage: S3 region, bucket, optional custom endpoint and public base URL
//   - Auth: JWT signing secret, token TTL, bcrypt cost
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage bucket and region are required
//   - JWT secret is required
//   - Log level must be debug, info, warn, or error
package config
