package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Env  string
	Port string

	DatabaseDSN string
	JWTSecret   string

	Log struct {
		Level  string
		Format string
	}

	Monitor struct {
		Enabled        bool
		Interval       time.Duration
		NotifyOnBreach bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	SMTP struct {
		Host     string
		Port     int
		User     string
		Password string
		From     string
	}
	NotifierURL string

	MQTT struct {
		Broker   string
		ClientID string
		Username string
		Password string
		Topic    string
	}

	Reports struct {
		Bucket string
		Dir    string
	}

	AdminEmail    string
	AdminPassword string
}

// IsDevelopment is true for APP_ENV=development (the default).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env when present and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DB_DSN", "host=localhost user=postgres password=postgres dbname=riverai port=5432 sslmode=disable")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Monitor.Enabled = getEnvBool("MONITOR_ENABLED", true)
	cfg.Monitor.Interval = getEnvDuration("MONITOR_INTERVAL", 60*time.Second)
	cfg.Monitor.NotifyOnBreach = getEnvBool("MONITOR_NOTIFY", false)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getEnvInt("SMTP_PORT", 587)
	cfg.SMTP.User = getEnv("SMTP_USER", "")
	cfg.SMTP.Password = getEnv("SMTP_PASS", "")
	cfg.SMTP.From = getEnv("SMTP_FROM", "")
	cfg.NotifierURL = getEnv("NOTIFIER_URL", "")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "riverai-ingest")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "riverai/kits/+/+")

	cfg.Reports.Bucket = getEnv("REPORT_BUCKET", "")
	cfg.Reports.Dir = getEnv("REPORT_DIR", "./reports")

	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")

	if cfg.JWTSecret == "" && !cfg.IsDevelopment() {
		return nil, errors.New("JWT_SECRET is required outside development")
	}
	return cfg, nil
}

// Connect opens postgres and applies migrations.
func Connect(cfg *Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := Migrations(db); err != nil {
		return nil, err
	}
	logger.Info("Database ready")
	return db, nil
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
