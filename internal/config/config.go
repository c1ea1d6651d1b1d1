package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Suggest  SuggestConfig
	Outbox   OutboxConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	SeedOnStart           bool
	SeedPassword          string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	PasswordResetTTLMinutes int
	BcryptCost              int
}

// SMTPConfig holds outbound mail transport values. An empty Host or From
// means the transport is unconfigured and sends are skipped.
type SMTPConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	From               string
	UseTLS             bool
	SkipVerify         bool
	SendTimeoutSeconds int
}

// SuggestConfig points at the external department-classification collaborator.
type SuggestConfig struct {
	URL            string
	APIKey         string
	TimeoutSeconds int
}

// OutboxConfig tunes the pending-notification worker.
type OutboxConfig struct {
	PollIntervalSeconds int
	MaxAttempts         int
	BackoffSeconds      int
	BatchSize           int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "escalation-tracker"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			SeedOnStart:           getEnvAsBool("APP_SEED_ON_START", false),
			SeedPassword:          getEnv("APP_SEED_PASSWORD", "changeme123"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:   getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 30),
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		SMTP: SMTPConfig{
			Host:               os.Getenv("SMTP_HOST"),
			Port:               getEnvAsInt("SMTP_PORT", 587),
			User:               os.Getenv("SMTP_USER"),
			Password:           os.Getenv("SMTP_PASSWORD"),
			From:               os.Getenv("SMTP_FROM"),
			UseTLS:             getEnvAsBool("SMTP_TLS", true),
			SkipVerify:         getEnvAsBool("SMTP_SKIP_VERIFY", false),
			SendTimeoutSeconds: getEnvAsInt("SMTP_SEND_TIMEOUT_SECONDS", 5),
		},
		Suggest: SuggestConfig{
			URL:            os.Getenv("SUGGEST_API_URL"),
			APIKey:         os.Getenv("SUGGEST_API_KEY"),
			TimeoutSeconds: getEnvAsInt("SUGGEST_TIMEOUT_SECONDS", 10),
		},
		Outbox: OutboxConfig{
			PollIntervalSeconds: getEnvAsInt("OUTBOX_POLL_INTERVAL_SECONDS", 5),
			MaxAttempts:         getEnvAsInt("OUTBOX_MAX_ATTEMPTS", 5),
			BackoffSeconds:      getEnvAsInt("OUTBOX_BACKOFF_SECONDS", 30),
			BatchSize:           getEnvAsInt("OUTBOX_BATCH_SIZE", 20),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Configured reports whether the mail transport can actually send.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.From != ""
}

// SendTimeout bounds a single delivery attempt.
func (s SMTPConfig) SendTimeout() time.Duration {
	if s.SendTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.SendTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
