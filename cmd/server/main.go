package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/studenthub/backend/docs"
	"github.com/studenthub/backend/internal/auth"
	"github.com/studenthub/backend/internal/config"
	"github.com/studenthub/backend/internal/handlers"
	"github.com/studenthub/backend/internal/logger"
	"github.com/studenthub/backend/internal/middleware"
	"github.com/studenthub/backend/internal/repositories"
	"github.com/studenthub/backend/internal/services"
)

// userRepository is the full store surface the server wires together; both
// storage backends implement it
type userRepository interface {
	services.AuthUserRepository
	services.StudentRepository
	services.ProfileUserRepository
	middleware.UserProvider
}

// @title StudentHub API
// @version 1.0
// @description API for student management: authentication, student directory and profiles

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting StudentHub server")

	// Select the storage backend
	var userRepo userRepository
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Logger.Warn("Using in-memory storage, data is lost on restart")
		userRepo = repositories.NewMemoryRepository()
	default:
		db, err := connectDB(cfg.DSN())
		if err != nil {
			logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := runMigrations(db); err != nil {
			logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		userRepo = repositories.NewUserRepository(db, logger.Logger)
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)
	studentService := services.NewStudentService(userRepo, logger.Logger)
	profileService := services.NewProfileService(userRepo, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	studentHandler := handlers.NewStudentHandler(studentService, logger.Logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger)

	// Initialize auth middleware
	authenticate := middleware.Authenticate(tokenGenerator, userRepo)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(1 * 1024 * 1024)) // 1MB

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"message":"Welcome to the StudentHub API"}`))
		})
		// Public auth routes
		authHandler.RegisterRoutes(r)
		// Profile routes (authenticated; role change additionally admin-gated)
		profileHandler.RegisterRoutes(r, authenticate, middleware.RequireAdmin)
		// Student directory is admin-only
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireAdmin)
			studentHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
