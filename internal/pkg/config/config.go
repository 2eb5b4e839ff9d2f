package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Admin    AdminConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
}

// AdminConfig is optional at load time; a missing value surfaces per login
// attempt as a misconfiguration error.
type AdminConfig struct {
	Username     string `env:"ADMIN_USERNAME"`
	Password     string `env:"ADMIN_PASSWORD"`
	PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
}

type SessionConfig struct {
	Secret       string `env:"SESSION_SECRET"`
	CookieName   string `env:"SESSION_COOKIE,        default=admin_session"`
	CookieSecure bool   `env:"SESSION_COOKIE_SECURE, default=false"`
	LoginPath    string `env:"LOGIN_PATH,            default=/login"`
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST,             default=localhost"`
	Port     int    `env:"DB_PORT,             default=5432"`
	User     string `env:"DB_USER,             default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Database string `env:"DB_NAME,             default=site"`
	SSLMode  string `env:"DB_SSLMODE,          default=disable"`
	MaxConns int32  `env:"DB_CONNECTION_LIMIT, default=10"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SMTPConfig struct {
	Host      string `env:"SMTP_HOST"`
	Port      int    `env:"SMTP_PORT, default=587"`
	User      string `env:"SMTP_USER"`
	Password  string `env:"SMTP_PASSWORD"`
	From      string `env:"SMTP_FROM"`
	Recipient string `env:"CONTACT_RECIPIENT"`
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := load(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
