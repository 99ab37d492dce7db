package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Admin     AdminConfig     `yaml:"admin"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	Mail      MailConfig      `yaml:"mail"`
	Kommo     KommoConfig     `yaml:"kommo"`
	Log       LogConfig       `yaml:"log"`
	Sentry    SentryConfig    `yaml:"sentry"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins     string        `yaml:"cors_origins"     env:"CORS_ALLOWED_ORIGINS"    env-default:"*"`
}

// AllowedOrigins splits the comma separated CORS origin list.
func (s ServerConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DatabaseConfig selects the lead store. Driver "memory" keeps leads in
// process and needs no DSN.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"            env:"DATABASE_DRIVER"            env-default:"postgres"`
	DSN             string        `yaml:"dsn"               env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"DATABASE_MAX_OPEN_CONNS"    env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"DATABASE_MAX_IDLE_CONNS"    env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME" env-default:"5m"`
	AutoMigrate     bool          `yaml:"auto_migrate"      env:"DATABASE_AUTO_MIGRATE"      env-default:"true"`
}

func (d DatabaseConfig) InMemory() bool {
	return d.Driver == DriverMemory
}

const (
	DriverPostgres = "postgres"
	DriverPGX      = "pgx"
	DriverMemory   = "memory"

	LimiterMemory = "memory"
	LimiterRedis  = "redis"
)

type RateLimitConfig struct {
	Limit         int           `yaml:"limit"          env:"RATE_LIMIT_MAX"            env-default:"5"`
	Window        time.Duration `yaml:"window"         env:"RATE_LIMIT_WINDOW"         env-default:"60s"`
	Backend       string        `yaml:"backend"        env:"RATE_LIMIT_BACKEND"        env-default:"memory"`
	RedisURL      string        `yaml:"redis_url"      env:"REDIS_URL"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RATE_LIMIT_SWEEP_INTERVAL" env-default:"5m"`
}

// AdminConfig holds the single shared admin credential. Password may be a
// plain secret or a bcrypt hash.
type AdminConfig struct {
	Password      string        `yaml:"password"       env:"ADMIN_PASSWORD"`
	SessionSecret string        `yaml:"session_secret" env:"ADMIN_SESSION_SECRET"`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"ADMIN_SESSION_TTL"    env-default:"24h"`
	CookieName    string        `yaml:"cookie_name"    env:"ADMIN_COOKIE_NAME"    env-default:"leads_admin"`
	SecureCookie  bool          `yaml:"secure_cookie"  env:"ADMIN_SECURE_COOKIE"  env-default:"true"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url" env:"RABBITMQ_URL"`
}

func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

type MailConfig struct {
	Host     string `yaml:"host"      env:"MAIL_HOST"`
	Port     int    `yaml:"port"      env:"MAIL_PORT"      env-default:"587"`
	User     string `yaml:"user"      env:"MAIL_USER"`
	Password string `yaml:"password"  env:"MAIL_PASS"`
	From     string `yaml:"from"      env:"MAIL_FROM"`
	NotifyTo string `yaml:"notify_to" env:"MAIL_NOTIFY_TO"`
	AdminURL string `yaml:"admin_url" env:"ADMIN_BASE_URL"`
}

func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.NotifyTo != ""
}

// KommoConfig forwards new leads into the Kommo CRM when set.
type KommoConfig struct {
	BaseURL  string `yaml:"base_url"  env:"KOMMO_BASE_URL"`
	APIToken string `yaml:"api_token" env:"KOMMO_API_TOKEN"`
	StatusID int    `yaml:"status_id" env:"KOMMO_STATUS_ID"`
}

func (k KommoConfig) Enabled() bool {
	return k.BaseURL != "" && k.APIToken != ""
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"         env:"SENTRY_DSN"`
	Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT" env-default:"production"`
}
