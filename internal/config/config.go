package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// APIPrefix is the path every API route is mounted under.
	APIPrefix string `mapstructure:"api_prefix" validate:"required,startswith=/"`

	// CORSOrigins lists the origins allowed to make cross-origin requests.
	CORSOrigins []string `mapstructure:"cors_origins" validate:"dive,required"`

	ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds"     validate:"gt=0"`
	WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds"    validate:"gt=0"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`

	// AutoMigrate applies pending migrations when the server starts.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
// It is loaded once at startup and never mutated afterwards.
type AuthConfig struct {
	SecretKey            string `mapstructure:"secret_key"             validate:"required,min=32"`
	Algorithm            string `mapstructure:"algorithm"              validate:"required,oneof=HS256 HS384 HS512"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,min=4,max=31"`
	ClockSkewSeconds     int    `mapstructure:"clock_skew_seconds"     validate:"gte=0"`
}
