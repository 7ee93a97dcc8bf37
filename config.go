package main

import (
	"os"
	"strconv"
)

// Config collects everything read from the environment. A .env file in the
// working directory is loaded first (without overwriting real env vars).
type Config struct {
	Addr        string
	DBDSN       string
	AutoMigrate bool
	JWTSecret   string
	UploadBase  string

	LogLevel  string
	LogFormat string

	// seed values for a fresh database
	BarangayName   string
	TrackingPrefix string
	AdminEmail     string
	AdminPassword  string

	Insight struct {
		BaseURL   string
		APIKey    string
		Model     string
		RateLimit int // calls per user per hour, 0 disables limiting
	}
	RedisAddr     string
	RedisPassword string

	TelegramToken  string
	TelegramChatID int64
}

func loadConfig() Config {
	var cfg Config
	cfg.Addr = getEnv("HTTP_ADDR", ":8081")
	cfg.DBDSN = os.Getenv("DB_DSN")
	cfg.AutoMigrate = getEnv("DB_AUTO_MIGRATE", "true") != "false"
	cfg.JWTSecret = getEnv("JWT_SECRET", "dev-insecure-secret-change")
	cfg.UploadBase = getEnv("UPLOAD_BASE", "uploads")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")

	cfg.BarangayName = getEnv("BARANGAY_NAME", "San Isidro")
	cfg.TrackingPrefix = getEnv("TRACKING_PREFIX", "BRGY")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "admin@barangay.local")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "admin123")

	cfg.Insight.BaseURL = os.Getenv("INSIGHT_API_URL")
	cfg.Insight.APIKey = os.Getenv("INSIGHT_API_KEY")
	cfg.Insight.Model = getEnv("INSIGHT_MODEL", "gpt-4o-mini")
	cfg.Insight.RateLimit = parseInt(getEnv("INSIGHT_RATE_LIMIT", "20"), 20)
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = int64(parseInt(os.Getenv("TELEGRAM_CHAT_ID"), 0))
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
