package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend: sqlite or postgres.
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`

	// URL is the database location: a file path or ":memory:" for sqlite,
	// a connection URL for postgres.
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// ManagerSecret is compared verbatim against the secret code supplied
	// at registration to decide whether the new user becomes a manager.
	ManagerSecret string `mapstructure:"manager_secret" validate:"required"`

	// SessionSecret keys the HMAC signature on session cookies.
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=32"`

	// SessionTTLMinutes caps the lifetime of a session, counted from
	// creation (not sliding). Defaults to 24 hours.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"required,gt=0"`

	// CookieSecure marks the session cookie Secure; enable it on any
	// deployment served over HTTPS.
	CookieSecure bool `mapstructure:"cookie_secure"`
}

// SessionConfig contains session persistence settings.
type SessionConfig struct {
	// Path is the bbolt database file for persisted sessions. When empty,
	// sessions live in process memory and do not survive a restart.
	Path string `mapstructure:"path"`
}

// CORSConfig contains cross-origin resource sharing settings.
type CORSConfig struct {
	// Origin is the single allowed origin echoed in CORS headers.
	// When empty, no CORS headers are emitted.
	Origin string `mapstructure:"origin"`
}
