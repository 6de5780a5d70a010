package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	MongoURI string
	MongoDB  string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	NATSURL      string
	RedisAddress string

	JWTSecret string

	SignURLTTL time.Duration
	CacheTTL   time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string

	OTLPEndpoint string
}

func Load() (*Config, error) {
	// .env is optional; environment variables are the primary source.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "artmarket"),
		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "artwork-uploads"),
		MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		NATSURL:        getEnv("NATS_URL", "nats://localhost:4222"),
		RedisAddress:   getEnv("REDIS_ADDRESS", "localhost:6379"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SignURLTTL:     getEnvDuration("SIGN_URL_TTL", 15*time.Minute),
		CacheTTL:       getEnvDuration("CACHE_TTL", time.Minute),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPEmail:      os.Getenv("SMTP_EMAIL"),
		SMTPPassword:   os.Getenv("SMTP_PASSWORD"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using %s", key, value, fallback)
		return fallback
	}
	return parsed
}
