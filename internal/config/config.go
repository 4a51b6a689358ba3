package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Ticket number formats accepted by TICKET_ID_FORMAT.
const (
	TicketFormatStructured = "structured"
	TicketFormatSimple     = "simple"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Media        MediaConfig
	Export       ExportConfig
	Tickets      TicketConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
}

// StorageConfig selects where the ticket collection slot lives.
type StorageConfig struct {
	Driver     string
	Key        string
	FilePath   string
	SQLitePath string
	SeedDemo   bool
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
	Level  string
	Format string
	Output string
}

// AuthConfig defines access-code and token parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	AdminAccessCode       string
	MaintenanceAccessCode string
	BcryptCost            int
}

// NotificationConfig holds transient notification and sink settings.
type NotificationConfig struct {
	TTLSeconds int
	EmailFrom  string
	WebhookURL string
}

// MediaConfig controls image handling.
type MediaConfig struct {
	MaxImageBytes       int
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// ExportConfig controls spreadsheet export.
type ExportConfig struct {
	Timezone string
}

// TicketConfig controls ticket numbering and submission.
type TicketConfig struct {
	IDFormat      string
	Timezone      string
	SubmitDelayMS int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "report-desk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 8*1024*1024),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageFile)),
			Key:        getEnv("STORAGE_KEY", "tickets"),
			FilePath:   getEnv("STORAGE_FILE_PATH", "data/tickets.json"),
			SQLitePath: getEnv("STORAGE_SQLITE_PATH", "data/report-desk.db"),
			SeedDemo:   getEnvAsBool("SEED_DEMO", false),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			AdminAccessCode:       getEnv("ADMIN_ACCESS_CODE", "1234"),
			MaintenanceAccessCode: os.Getenv("MAINTENANCE_ACCESS_CODE"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Notification: NotificationConfig{
			TTLSeconds: getEnvAsInt("NOTIFY_TTL_SECONDS", 5),
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Media: MediaConfig{
			MaxImageBytes:       getEnvAsInt("MAX_IMAGE_BYTES", 5*1024*1024),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "report-desk/tickets"),
		},
		Export: ExportConfig{
			Timezone: getEnv("EXPORT_TIMEZONE", "Africa/Cairo"),
		},
		Tickets: TicketConfig{
			IDFormat:      strings.ToLower(getEnv("TICKET_ID_FORMAT", TicketFormatStructured)),
			Timezone:      getEnv("TICKET_TIMEZONE", "Local"),
			SubmitDelayMS: getEnvAsInt("SUBMIT_DELAY_MS", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageFile, StorageSQLite, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == StoragePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN required for postgres storage")
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	switch c.Tickets.IDFormat {
	case TicketFormatStructured, TicketFormatSimple:
	default:
		return fmt.Errorf("invalid TICKET_ID_FORMAT %q", c.Tickets.IDFormat)
	}
	if !isNumeric(c.Auth.AdminAccessCode) {
		return fmt.Errorf("ADMIN_ACCESS_CODE must be numeric")
	}
	if c.Auth.MaintenanceAccessCode != "" && !isNumeric(c.Auth.MaintenanceAccessCode) {
		return fmt.Errorf("MAINTENANCE_ACCESS_CODE must be numeric")
	}
	if _, err := time.LoadLocation(c.Export.Timezone); err != nil {
		return fmt.Errorf("invalid EXPORT_TIMEZONE: %w", err)
	}
	if _, err := time.LoadLocation(c.Tickets.Timezone); err != nil {
		return fmt.Errorf("invalid TICKET_TIMEZONE: %w", err)
	}
	return nil
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

// TTL returns how long a notification stays visible.
func (n NotificationConfig) TTL() time.Duration {
	if n.TTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(n.TTLSeconds) * time.Second
}

// CloudinaryEnabled reports whether all Cloudinary credentials are present.
func (m MediaConfig) CloudinaryEnabled() bool {
	return m.CloudinaryCloudName != "" && m.CloudinaryAPIKey != "" && m.CloudinaryAPISecret != ""
}

// Location returns the zone used to format export timestamps.
func (e ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Location returns the zone used for the date part of ticket numbers.
func (t TicketConfig) Location() *time.Location {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SubmitDelay returns the simulated submission latency.
func (t TicketConfig) SubmitDelay() time.Duration {
	if t.SubmitDelayMS <= 0 {
		return 0
	}
	return time.Duration(t.SubmitDelayMS) * time.Millisecond
}

func isNumeric(val string) bool {
	if val == "" {
		return false
	}
	for _, r := range val {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
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
