package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/libris-io/libris/database"
	"github.com/libris-io/libris/httpapi"
	"github.com/libris-io/libris/s3store"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for libris.
type Config struct {
	Server   ServerConfig       `mapstructure:"server"`
	Service  ServiceConfig      `mapstructure:"service"`
	Database database.Config    `mapstructure:"database"`
	Storage  s3store.Config     `mapstructure:"storage"`
	Auth     AuthConfig         `mapstructure:"auth"`
	CORS     httpapi.CORSConfig `mapstructure:"cors"`
	Log      LogConfig          `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// ServiceConfig holds lifecycle pipeline configuration.
type ServiceConfig struct {
	StagingDir          string `mapstructure:"staging_dir" validate:"required"`
	MaxUploadSize       int64  `mapstructure:"max_upload_size" validate:"min=1"`
	CompensationTimeout int    `mapstructure:"compensation_timeout" validate:"min=1"`
}

// AuthConfig holds token and credential-hashing configuration.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret" validate:"required"`
	TokenTTL   int    `mapstructure:"token_ttl" validate:"min=1"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"min=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":     "database.type",
	"db-dsn":      "database.dsn",
	"staging-dir": "service.staging_dir",
	"bucket":      "storage.bucket",
	"region":      "storage.region",
	"port":        "server.port",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3042)

	v.SetDefault("service.staging_dir", "./staging")
	v.SetDefault("service.max_upload_size", 10*1024*1024)
	v.SetDefault("service.compensation_timeout", 30) // seconds

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "libris.db")
	v.SetDefault("database.tables.books", "libris_books")
	v.SetDefault("database.tables.users", "libris_users")

	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("auth.token_ttl", 86400) // seconds
	v.SetDefault("auth.bcrypt_cost", 0)   // 0 means the library default

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("LIBRIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
