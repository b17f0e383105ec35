package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CONSOLE_SERVER_PORT.
const EnvPrefix = "CONSOLE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first when present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("user.login.default_application", true)
	v.SetDefault("user.creation.enabled", false)
	v.SetDefault("user.creation.token.expire_after", 86400)
	v.SetDefault("jwt.issuer", "gravitee-management-auth")
	v.SetDefault("jwt.expire_after", 604800)
	v.SetDefault("support.enabled", false)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.port", 587)
	v.SetDefault("tasks.worker_count", 2)
	v.SetDefault("tasks.queue_size", 100)
}

// bindEnv registers keys that have no default so AutomaticEnv sees them
// during Unmarshal.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database.url",
		"jwt.secret",
		"portal.url",
		"email.host",
		"email.username",
		"email.password",
		"email.from",
		"email.subject_prefix",
	} {
		_ = v.BindEnv(key)
	}
}
