// create_admin provisions a staff account from the command line, for bootstrap
// and recovery when no admin can log in. Runs against the database directly,
// bypassing the HTTP layer.
//
// usage: go run ./cmd/create_admin <email> <password> [role]
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/create_admin <email> <password> [role]")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	role := lifecycle.RoleAdmin
	if len(os.Args) > 3 {
		parsed, err := lifecycle.ParseRole(os.Args[3])
		if err != nil || !parsed.Staff() {
			log.Fatalf("invalid staff role %q", os.Args[3])
		}
		role = parsed
	}
	if len(password) < 6 {
		log.Fatal("password too short (min 6)")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var bgy models.Barangay
	if err := db.Order("id").First(&bgy).Error; err != nil {
		log.Fatalf("no barangay found, run the server once to seed: %v", err)
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d, role=%s)\n", email, existing.ID, existing.Role)
		os.Exit(0)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		Email:          email,
		HashedPassword: hashed,
		Name:           strings.Split(email, "@")[0],
		Role:           string(role),
		BarangayID:     bgy.ID,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created %s user %s id=%d (barangay %s)\n", role, email, user.ID, bgy.Name)
}
