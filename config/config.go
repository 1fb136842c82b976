package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	CORS_ORIGIN string

	PAYMENT_BASE_URL       string
	PAYMENT_API_KEY        string
	PAYMENT_ACCOUNT_ID     string
	PAYMENT_PRODUCT_ID     string
	PAYMENT_CALLBACK_TOKEN string
	PAYMENT_POLL_INTERVAL  string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")

	// Payment provider vars are checked again at call sites so the app can
	// still boot without a configured provider (local catalog work).
	PAYMENT_BASE_URL = getEnv("PAYMENT_BASE_URL", "")
	PAYMENT_API_KEY = getEnv("PAYMENT_API_KEY", "")
	PAYMENT_ACCOUNT_ID = getEnv("PAYMENT_ACCOUNT_ID", "")
	PAYMENT_PRODUCT_ID = getEnv("PAYMENT_PRODUCT_ID", "")
	PAYMENT_CALLBACK_TOKEN = getEnv("PAYMENT_CALLBACK_TOKEN", "")
	PAYMENT_POLL_INTERVAL = getEnv("PAYMENT_POLL_INTERVAL", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", "")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
