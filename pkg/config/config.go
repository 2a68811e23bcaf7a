package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	Environment        string
	FirebaseProject    string
	FirebaseApiKey     string
	StorageBucket      string
	RedisAddr          string
	RedisPassword      string
	PaymentServerKey   string
	PaymentClientKey   string
	PaymentEnvironment string
	ShippingApiKey     string
	ShippingBaseURL    string
	RequestTimeout     time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:     getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		PaymentServerKey:   getEnv("PAYMENT_SERVER_KEY", ""),
		PaymentClientKey:   getEnv("PAYMENT_CLIENT_KEY", ""),
		PaymentEnvironment: getEnv("PAYMENT_ENVIRONMENT", "sandbox"),
		ShippingApiKey:     getEnv("SHIPPING_API_KEY", ""),
		ShippingBaseURL:    getEnv("SHIPPING_BASE_URL", ""),
		RequestTimeout:     time.Duration(getEnvAsInt64("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
