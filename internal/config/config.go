package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	User     UserConfig     `mapstructure:"user"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Portal   PortalConfig   `mapstructure:"portal"`
	Support  SupportConfig  `mapstructure:"support"`
	Email    EmailConfig    `mapstructure:"email"`
	Tasks    TasksConfig    `mapstructure:"tasks" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// UserConfig groups the user lifecycle switches.
type UserConfig struct {
	Login    UserLoginConfig    `mapstructure:"login"`
	Creation UserCreationConfig `mapstructure:"creation"`
}

// UserLoginConfig controls what happens on a user's first connection.
type UserLoginConfig struct {
	DefaultApplication bool `mapstructure:"default_application"`
}

// UserCreationConfig gates self-registration.
type UserCreationConfig struct {
	Enabled bool                    `mapstructure:"enabled"`
	Token   UserCreationTokenConfig `mapstructure:"token"`
}

// UserCreationTokenConfig sets the lifetime of registration tokens, in seconds.
type UserCreationTokenConfig struct {
	ExpireAfter int `mapstructure:"expire_after" validate:"gt=0"`
}

// JWTConfig holds the HMAC signing settings shared by registration and session tokens.
// An empty secret is allowed at start-up; operations that need it fail later.
type JWTConfig struct {
	Secret      string `mapstructure:"secret" validate:"omitempty,min=32"`
	Issuer      string `mapstructure:"issuer" validate:"required"`
	ExpireAfter int    `mapstructure:"expire_after" validate:"gt=0"`
}

// PortalConfig holds the public portal location used in e-mail links.
type PortalConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// SupportConfig gates the support ticket feature.
type SupportConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// EmailConfig holds SMTP delivery settings. When Enabled is false mail is
// only logged.
type EmailConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Host          string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port          int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	From          string `mapstructure:"from" validate:"omitempty,email"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// TasksConfig sizes the background worker pool.
type TasksConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int `mapstructure:"queue_size" validate:"required,gt=0"`
}
