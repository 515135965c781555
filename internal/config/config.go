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
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Scheduling   SchedulingConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
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
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SchedulingConfig holds assignment engine fallbacks used when a
// store has no staffing policy row for a day type.
type SchedulingConfig struct {
	DefaultLunchHeadcount  int
	DefaultDinnerHeadcount int
	DefaultOpenTime        string
	DefaultCloseTime       string
}

// FullDaySource selects where a FULL-day shift's paid span comes from.
type FullDaySource string

const (
	FullDayFromStoreHours FullDaySource = "store_hours"
	FullDayFromRecorded   FullDaySource = "recorded"
)

// PayrollConfig holds the pay derivation policy knobs.
type PayrollConfig struct {
	BreakMinutes            int
	DailyOvertimeThreshold  int // minutes per day before overtime applies
	WeeklyOvertimeThreshold int // minutes per week before overtime applies
	OvertimeMultiplier      float64
	FullDaySource           FullDaySource
}

// NotificationConfig holds notification publishing settings.
type NotificationConfig struct {
	ChannelPrefix string
	Enabled       bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	fullDaySource := FullDaySource(getEnv("PAYROLL_FULL_DAY_SOURCE", string(FullDayFromStoreHours)))
	if fullDaySource != FullDayFromStoreHours && fullDaySource != FullDayFromRecorded {
		return nil, fmt.Errorf("invalid PAYROLL_FULL_DAY_SOURCE: %q", fullDaySource)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "shift-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
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
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Scheduling: SchedulingConfig{
			DefaultLunchHeadcount:  getEnvAsInt("SCHEDULING_DEFAULT_LUNCH_HEADCOUNT", 2),
			DefaultDinnerHeadcount: getEnvAsInt("SCHEDULING_DEFAULT_DINNER_HEADCOUNT", 2),
			DefaultOpenTime:        getEnv("SCHEDULING_DEFAULT_OPEN_TIME", "10:00"),
			DefaultCloseTime:       getEnv("SCHEDULING_DEFAULT_CLOSE_TIME", "22:00"),
		},
		Payroll: PayrollConfig{
			BreakMinutes:            getEnvAsInt("PAYROLL_BREAK_MINUTES", 60),
			DailyOvertimeThreshold:  getEnvAsInt("PAYROLL_DAILY_OVERTIME_MINUTES", 480),
			WeeklyOvertimeThreshold: getEnvAsInt("PAYROLL_WEEKLY_OVERTIME_MINUTES", 2400),
			OvertimeMultiplier:      getEnvAsFloat("PAYROLL_OVERTIME_MULTIPLIER", 1.25),
			FullDaySource:           fullDaySource,
		},
		Notification: NotificationConfig{
			ChannelPrefix: getEnv("NOTIFY_CHANNEL_PREFIX", "shift-service:stores"),
			Enabled:       getEnvAsBool("NOTIFY_ENABLED", true),
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

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
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
