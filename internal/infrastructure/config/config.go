package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// MaxUploadBytes bounds the multipart body of contract uploads.
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES, default=10485760"`
	LedgerBackend  string `env:"LEDGER_BACKEND,   default=redis"`
	AuditWorkers   int    `env:"AUDIT_WORKERS,    default=4"`

	// TrustProxy makes the API take the client IP from X-Forwarded-For when
	// the request comes from a private-network proxy.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Auth      AuthConfig
	Bootstrap BootstrapConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET, required"`
	JWTIssuer        string        `env:"JWT_ISSUER,           default=dealership-api"`
	JWTExpiresIn     time.Duration `env:"JWT_EXPIRES_IN,       default=24h"`
	BcryptCost       int           `env:"BCRYPT_COST,          default=10"`
	MaxLoginAttempts int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow    time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
	LoginRateLimit   int           `env:"LOGIN_RATE_LIMIT,     default=5"`
	LoginRateWindow  time.Duration `env:"LOGIN_RATE_WINDOW,    default=60s"`
}

// BootstrapConfig names the admin account created at startup when no account
// with that email exists yet. Both fields empty disables the bootstrap.
type BootstrapConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=dealership"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type TelemetryConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED,  default=false"`
	Endpoint string `env:"OTEL_ENDPOINT, default=http://localhost:4318"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.Auth.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Auth.MaxLoginAttempts <= 0 || c.Auth.LoginRateLimit <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS and LOGIN_RATE_LIMIT must be positive")
	}
	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	switch c.LedgerBackend {
	case "redis", "mongo":
	default:
		return fmt.Errorf("LEDGER_BACKEND must be redis or mongo, got %q", c.LedgerBackend)
	}
	return nil
}
