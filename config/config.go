package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	AppEnv string

	APIBaseURL   string // Remote REST API root, e.g. https://api.example.com/api
	MediaBaseURL string // Base for relative media paths returned by the API
	APITimeout   time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	StoreDriver string // gorm | redis | memory
	DBDriver    string // sqlite | postgres | mysql
	DBDSN       string
	DBName      string
	RedisAddr   string

	MessagingURL      string // Out-of-band purchase link for paid courses
	CertificateLocale string
	CertificateIssuer string

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	HousekeepingCron string
}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:   getEnv("PORT", "3000"),
		AppEnv: getEnv("APP_ENV", "development"),

		APIBaseURL:   strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000/api"), "/"),
		MediaBaseURL: strings.TrimRight(getEnv("MEDIA_BASE_URL", "http://localhost:8000"), "/"),
		APITimeout:   getEnvDuration("API_TIMEOUT", 15*time.Second),

		SessionSecret: getEnv("SESSION_SECRET", "defaultSecret"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		StoreDriver: getEnv("STORE_DRIVER", "gorm"),
		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBDSN:       getEnv("DB_DSN", ""),
		DBName:      getEnv("DB_NAME", "coursefront.db"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),

		MessagingURL:      getEnv("MESSAGING_URL", "https://wa.me/10000000000"),
		CertificateLocale: getEnv("CERTIFICATE_LOCALE", "en"),
		CertificateIssuer: getEnv("CERTIFICATE_ISSUER", "Course Academy"),

		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendgridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendgridFromName:  getEnv("SENDGRID_FROM_NAME", "Course Academy"),

		HousekeepingCron: getEnv("HOUSEKEEPING_CRON", "0 3 * * *"),
	}

	// Validate critical configuration
	if cfg.SessionSecret == "defaultSecret" {
		log.Println("Warning: Using default SESSION_SECRET. Update it in your environment.")
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDSN == "" && cfg.StoreDriver == "gorm" {
		log.Printf("Warning: DB_DRIVER=%s without DB_DSN. Connection will likely fail.", cfg.DBDriver)
	}

	return cfg
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvDuration accepts Go durations ("15s") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getEnvInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Error converting environment variable %s to duration", key)
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}
