package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bgyadmin/pkg/insight"
	"bgyadmin/pkg/notify"
)

var (
	cfg       Config
	logger    *zap.Logger
	jwtSecret []byte

	notifier       *notify.Notifier
	insightClient  *insight.Client
	insightLimiter *insight.RateLimiter
)

func main() {
	// .env is loaded before anything reads the environment; real env vars win
	_ = godotenv.Load()
	cfg = loadConfig()
	logger = newLogger(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()
	jwtSecret = []byte(cfg.JWTSecret)

	// Support a lightweight migrate command: `./bgyadmin migrate`
	// It runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		logger.Info("migration and seeding completed")
		return
	}

	initDB()

	if cfg.Insight.BaseURL != "" {
		insightClient = insight.NewClient(cfg.Insight.BaseURL, cfg.Insight.APIKey, cfg.Insight.Model, logger)
	}
	insightLimiter = insight.NewRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.Insight.RateLimit, time.Hour)

	var err error
	notifier, err = notify.New(cfg.TelegramToken, cfg.TelegramChatID, logger)
	if err != nil {
		// notifications are best-effort, a bad token must not stop the server
		logger.Warn("telegram notifier disabled", zap.Error(err))
		notifier = nil
	}

	r := gin.Default()
	setupRoutes(r)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
