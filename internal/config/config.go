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
	App          App
	Postgres     Postgres
	Redis        Redis
	Logger       Logger
	Auth         Auth
	QR           QR
	Media        Media
	Notification Notification
	Bootstrap    Bootstrap
}

// App controls server level behavior.
type App struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// Postgres holds DB connection values.
type Postgres struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// Redis holds Redis connection values.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Logger configures logging behavior.
type Logger struct {
	Level string
}

// Auth defines token and cookie parameters.
type Auth struct {
	JWTSecret               string
	AccessTokenTTLMinutes   int
	RefreshTokenTTLMinutes  int
	AccessCookieName        string
	RefreshCookieName       string
	CookieSecure            bool
	CookieSameSite          string
	BcryptCost              int
}

// QR configures room payload signing and asynchronous image rendering.
type QR struct {
	Secret         string
	FormBaseURL    string
	OutputDir      string
	QueueKey       string
	MaxAttempts    int
	RetryBackoffMS int
}

// Media configures storage for uploaded complaint images.
type Media struct {
	Dir string
}

// Notification holds stub notification endpoints.
type Notification struct {
	EmailFrom  string
	WebhookURL string
}

// Bootstrap describes the initial master admin created at startup when the
// users table has no such account.
type Bootstrap struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: App{
			Name:                  getEnv("APP_NAME", "hospital-complaint-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: Postgres{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: Logger{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: Auth{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 10),
			RefreshTokenTTLMinutes: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", 1440),
			AccessCookieName:       getEnv("AUTH_ACCESS_COOKIE", "access_token"),
			RefreshCookieName:      getEnv("AUTH_REFRESH_COOKIE", "refresh_token"),
			CookieSecure:           getEnvAsBool("AUTH_COOKIE_SECURE", false),
			CookieSameSite:         getEnv("AUTH_COOKIE_SAMESITE", "Lax"),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		QR: QR{
			Secret:         getEnv("QR_CODE_SECRET_KEY", "dev-qr-secret"),
			FormBaseURL:    getEnv("QR_FORM_BASE_URL", "https://complaint-form.example.com/ComplaintForm"),
			OutputDir:      getEnv("QR_OUTPUT_DIR", "media/qr_codes"),
			QueueKey:       getEnv("QR_QUEUE_KEY", "qr:jobs"),
			MaxAttempts:    getEnvAsInt("QR_MAX_ATTEMPTS", 3),
			RetryBackoffMS: getEnvAsInt("QR_RETRY_BACKOFF_MS", 500),
		},
		Media: Media{
			Dir: getEnv("MEDIA_DIR", "media/complaint_images"),
		},
		Notification: Notification{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Bootstrap: Bootstrap{
			AdminUsername: getEnv("BOOTSTRAP_ADMIN_USERNAME", ""),
			AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a App) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a App) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the access token lifetime.
func (a Auth) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a Auth) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLMinutes) * time.Minute
}

// RetryBackoff returns the delay between QR render attempts.
func (q QR) RetryBackoff() time.Duration {
	return time.Duration(q.RetryBackoffMS) * time.Millisecond
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
