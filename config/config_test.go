package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libris-io/libris/config"
)

// writeConfig writes a YAML config file into a temp dir and returns its path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// minimalConfig carries only the fields that have no usable default.
const minimalConfig = `
storage:
  bucket: test-bucket
auth:
  jwt_secret: test-secret
`

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalConfig)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3042, cfg.Server.Port)
	assert.Equal(t, "./staging", cfg.Service.StagingDir)
	assert.Equal(t, int64(10*1024*1024), cfg.Service.MaxUploadSize)
	assert.Equal(t, 30, cfg.Service.CompensationTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "libris.db", cfg.Database.DSN)
	assert.Equal(t, "libris_books", cfg.Database.Tables.Books)
	assert.Equal(t, "libris_users", cfg.Database.Tables.Users)
	assert.Equal(t, "us-east-1", cfg.Storage.Region)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
	assert.Equal(t, 86400, cfg.Auth.TokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
server:
  port: 8080
service:
  staging_dir: /var/lib/libris/staging
  max_upload_size: 5242880
  compensation_timeout: 10
database:
  type: postgres
  dsn: postgres://localhost/test
  tables:
    books: custom_books
    users: custom_users
storage:
  region: eu-west-1
  bucket: library-assets
  base_url: https://cdn.example.com
auth:
  jwt_secret: s3cret
  token_ttl: 3600
log:
  level: debug
`)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "/var/lib/libris/staging", cfg.Service.StagingDir)
	assert.Equal(t, int64(5242880), cfg.Service.MaxUploadSize)
	assert.Equal(t, 10, cfg.Service.CompensationTimeout)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "custom_books", cfg.Database.Tables.Books)
	assert.Equal(t, "custom_users", cfg.Database.Tables.Users)
	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, "library-assets", cfg.Storage.Bucket)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.BaseURL)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 3600, cfg.Auth.TokenTTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFileMerge(t *testing.T) {
	base := writeConfig(t, "base.yaml", minimalConfig+`
server:
  port: 3042
log:
  level: info
`)
	override := writeConfig(t, "override.yaml", `
server:
  port: 9090
`)

	cfg, err := config.Load([]string{base, override}, nil)
	require.NoError(t, err)

	// Later files win, untouched keys survive from earlier files
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LIBRIS_SERVER_PORT", "7100")
	t.Setenv("LIBRIS_LOG_LEVEL", "warn")

	path := writeConfig(t, "config.yaml", minimalConfig)

	cfg, err := config.Load([]string{path}, nil)
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_FlagOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalConfig+`
server:
  port: 8080
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "server port")
	flags.String("db-dsn", "", "database dsn")
	require.NoError(t, flags.Parse([]string{"--port=9999", "--db-dsn=flagged.db"}))

	cfg, err := config.Load([]string{path}, flags)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "flagged.db", cfg.Database.DSN)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", minimalConfig+`
server:
  port: 8080
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 1234, "server port")
	require.NoError(t, flags.Parse(nil))

	cfg, err := config.Load([]string{path}, flags)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing jwt secret", `
storage:
  bucket: b
`},
		{"missing bucket", `
auth:
  jwt_secret: s
`},
		{"bad port", minimalConfig + `
server:
  port: 99999
`},
		{"bad log level", minimalConfig + `
log:
  level: verbose
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.yaml", tt.content)
			_, err := config.Load([]string{path}, nil)
			assert.Error(t, err)
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	cfg := &config.Config{}
	ctx := config.WithContext(t.Context(), cfg)

	got, err := config.FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestFromContext_Missing(t *testing.T) {
	_, err := config.FromContext(t.Context())
	assert.Error(t, err)
}
