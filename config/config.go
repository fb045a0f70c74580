package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Store    StoreConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	Backup   BackupConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type AdminConfig struct {
	SecretKey    string
	SessionTTL   time.Duration
	CookieSecure bool
}

type StoreConfig struct {
	Driver            string
	PostgresDSN       string
	SQLitePath        string
	EnforceItemSchema bool
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
	EmulatorHost    string
}

type RedisConfig struct {
	URL string
}

type BackupConfig struct {
	Schedule string
	Dir      string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Supported document store drivers.
const (
	DriverFirestore = "firestore"
	DriverRedis     = "redis"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Admin: AdminConfig{
			SecretKey:    os.Getenv("ADMIN_SECRET_KEY"),
			SessionTTL:   getEnvAsDuration("ADMIN_SESSION_TTL", time.Second),
			CookieSecure: getEnvAsBool("ADMIN_COOKIE_SECURE", false),
		},
		Store: StoreConfig{
			Driver:            strings.ToLower(getEnv("DOCSTORE_DRIVER", DriverFirestore)),
			PostgresDSN:       os.Getenv("DB_DSN"),
			SQLitePath:        getEnv("SQLITE_PATH", "adminpanel.db"),
			EnforceItemSchema: getEnvAsBool("ENFORCE_ITEM_SCHEMA", false),
		},
		Firebase: FirebaseConfig{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsPath: os.Getenv("FIREBASE_CREDENTIALS_PATH"),
			EmulatorHost:    os.Getenv("FIRESTORE_EMULATOR_HOST"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Backup: BackupConfig{
			Schedule: os.Getenv("BACKUP_CRON"),
			Dir:      getEnv("BACKUP_DIR", "backups"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL must be positive")
	}

	switch c.Store.Driver {
	case DriverFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case DriverRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown DOCSTORE_DRIVER %q", c.Store.Driver)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvAsDuration accepts Go durations ("5m") or a bare number of seconds ("300").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
