package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment        string
	HTTPPort           string
	Domains            []string
	CertCacheDir       string
	LogDir             string
	DatabaseURL        string
	KnackApplicationID string
	KnackAPIKey        string
	KnackAPIURL        string
	KnackTimeout       time.Duration
	ExecutionRetention time.Duration
	CleanupInterval    time.Duration
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8086"),
		Domains:            []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir:       getEnv("CERT_CACHE_DIR", "certs"),
		LogDir:             getEnv("LOG_DIR", "logs/actions"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		KnackApplicationID: getEnv("KNACK_APPLICATION_ID", ""),
		KnackAPIKey:        getEnv("KNACK_API_KEY", ""),
		KnackAPIURL:        getEnv("KNACK_API_URL", "https://api.knack.com/v1"),
		KnackTimeout:       time.Duration(getEnvAsInt("KNACK_TIMEOUT", 30)) * time.Second,
		ExecutionRetention: time.Duration(getEnvAsInt("EXECUTION_RETENTION", 1440)) * time.Minute,
		CleanupInterval:    time.Duration(getEnvAsInt("CLEANUP_INTERVAL", 60)) * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
