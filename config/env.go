package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	JWTExpiry  string

	RedisAddr     string
	RedisPassword string

	CORSAllowedOrigins []string

	StripeSecretKey      string
	StripeWebhookSecret  string
	StripeMonthlyPriceID string

	OpenAIAPIKey string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	CloudinaryURL string

	// Cart pricing rules. Carts totalling above the threshold ship free,
	// everything else pays the flat cargo fee.
	CargoFreeThreshold float64
	CargoFlatFee       float64

	ReviewCommentLimit int
	CategoryCacheTTL   time.Duration
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}

	AppConfig = &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		Port:       getEnv("APP_PORT", getEnv("PORT", "8080")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "trendora"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		JWTExpiry:  getEnv("JWT_EXPIRY", "24h"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		StripeSecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeMonthlyPriceID: os.Getenv("STRIPE_MONTHLY_SUBSCRIPTION_PRICE_ID"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: smtpPort,
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		CargoFreeThreshold: getEnvFloat("CARGO_FREE_THRESHOLD", 200),
		CargoFlatFee:       getEnvFloat("CARGO_FLAT_FEE", 15),

		ReviewCommentLimit: getEnvInt("REVIEW_COMMENT_LIMIT", 1500),
		CategoryCacheTTL:   getEnvDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && value > 0 {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil && value > 0 {
		return value
	}
	return defaultValue
}
