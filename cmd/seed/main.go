// Command seed creates the initial admin account. Credentials come from
// ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD so no secret ever lives in the
// source tree. Running it twice is safe: an existing account is left alone.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/studenthub/backend/internal/apperrors"
	"github.com/studenthub/backend/internal/config"
	"github.com/studenthub/backend/internal/logger"
	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/repositories"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin User"
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatalln("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v\n", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v\n", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v\n", err)
	}

	userRepo := repositories.NewUserRepository(db, logger.Logger)
	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdmin,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			fmt.Println("Admin account already exists, nothing to do")
			return
		}
		log.Fatalf("Failed to create admin: %v\n", err)
	}

	fmt.Printf("Admin account created: %s (%s)\n", admin.Email, admin.ID)
}
