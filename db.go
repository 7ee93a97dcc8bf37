package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

var db *gorm.DB

func initDB() {
	if cfg.DBDSN == "" {
		logger.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect postgres database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		tables := []struct {
			name  string
			model interface{}
		}{
			{"barangays", &models.Barangay{}},
			{"users", &models.User{}},
			{"residents", &models.Resident{}},
			{"document_requests", &models.DocumentRequest{}},
			{"payment_proofs", &models.PaymentProof{}},
			{"request_counters", &models.RequestCounter{}},
			{"refresh_tokens", &models.RefreshToken{}},
		}
		for _, t := range tables {
			if err := db.AutoMigrate(t.model); err != nil {
				logger.Warn("migration warning", zap.String("table", t.name), zap.Error(err))
			}
		}
	}
	seedDB()
}

// seedDB ensures the default barangay and a bootstrap admin exist, then the
// upload directories. Idempotent, runs on every start.
func seedDB() {
	var bgy models.Barangay
	if err := db.Where("name = ?", cfg.BarangayName).First(&bgy).Error; err != nil {
		bgy = models.Barangay{Name: cfg.BarangayName, TrackingPrefix: cfg.TrackingPrefix}
		if err := db.Create(&bgy).Error; err != nil {
			logger.Fatal("failed to seed barangay", zap.Error(err))
		}
		logger.Info("seeded barangay", zap.String("name", bgy.Name), zap.Uint("id", bgy.ID))
	}

	var count int64
	db.Model(&models.User{}).Where("email = ?", cfg.AdminEmail).Count(&count)
	if count == 0 {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		admin := models.User{
			Email:          cfg.AdminEmail,
			HashedPassword: hashed,
			Name:           "Administrator",
			Role:           string(lifecycle.RoleAdmin),
			SuperAdmin:     true,
			BarangayID:     bgy.ID,
		}
		if err := db.Create(&admin).Error; err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
		} else {
			logger.Info("seeded admin user", zap.String("email", cfg.AdminEmail))
		}
	}

	ensureUploadDirs()
}

func ensureUploadDirs() {
	for _, dir := range []string{cfg.UploadBase, proofDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Warn("failed to create upload dir", zap.String("dir", dir), zap.Error(err))
		}
	}
}

// proofDir is where payment proof images land; process/proofwatch watches it.
func proofDir() string {
	return filepath.Join(cfg.UploadBase, "proofs")
}
