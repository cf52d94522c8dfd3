package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Ticketmaster struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	Import struct {
		DaysAhead  int
		VenueDelay time.Duration
		PageSize   int
	}

	Auth struct {
		JWTSecret   string
		TokenTTL    time.Duration
		OTPTTL      time.Duration
		OTPAttempts int
	}

	Cron struct {
		Secret string
	}

	SMTP struct {
		Host string
		Port string
		User string
		Pass string
		From string
	}

	Media struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "lineup")
	config.DB.Password = getEnv("DB_PASSWORD", "lineup_password")
	config.DB.Name = getEnv("DB_NAME", "lineup_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	config.Ticketmaster.BaseURL = getEnv("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2")
	config.Ticketmaster.APIKey = getEnv("TICKETMASTER_API_KEY", "")
	config.Ticketmaster.Timeout = getEnvAsDuration("TICKETMASTER_TIMEOUT", 15*time.Second)

	config.Import.DaysAhead = getEnvAsInt("IMPORT_DAYS_AHEAD", 90)
	config.Import.VenueDelay = getEnvAsDuration("IMPORT_VENUE_DELAY", 500*time.Millisecond)
	config.Import.PageSize = getEnvAsInt("IMPORT_PAGE_SIZE", 200)

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	config.Auth.TokenTTL = getEnvAsDuration("JWT_TOKEN_TTL", 24*time.Hour)
	config.Auth.OTPTTL = getEnvAsDuration("OTP_TTL", 10*time.Minute)
	config.Auth.OTPAttempts = getEnvAsInt("OTP_MAX_ATTEMPTS", 5)

	config.Cron.Secret = getEnv("CRON_SECRET", "")

	config.SMTP.Host = getEnv("SMTP_HOST", "")
	config.SMTP.Port = getEnv("SMTP_PORT", "587")
	config.SMTP.User = getEnv("SMTP_USER", "")
	config.SMTP.Pass = getEnv("SMTP_PASS", "")
	config.SMTP.From = getEnv("SMTP_FROM", "no-reply@lineup.local")

	config.Media.Endpoint = getEnv("MEDIA_ENDPOINT", "localhost:9000")
	config.Media.AccessKey = getEnv("MEDIA_ACCESS_KEY", "")
	config.Media.SecretKey = getEnv("MEDIA_SECRET_KEY", "")
	config.Media.Bucket = getEnv("MEDIA_BUCKET", "lineup-media")
	config.Media.UseSSL = getEnv("MEDIA_USE_SSL", "false") == "true"
	config.Media.PublicURL = getEnv("MEDIA_PUBLIC_URL", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a Go duration string or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
