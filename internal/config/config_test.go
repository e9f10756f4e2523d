package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the minimum environment for the MySQL backend
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "studenthub")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "studenthub")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMySQL, cfg.Storage)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenExpiry)
}

func TestLoad_MemoryBackendSkipsDatabaseVars(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", StorageMemory)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{
			name: "missing DB_HOST for mysql backend",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DB_HOST", "")
			},
		},
		{
			name: "missing JWT_SECRET",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("JWT_SECRET", "")
			},
		},
		{
			name: "invalid storage backend",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("STORAGE_BACKEND", "postgres")
			},
		},
		{
			name: "non-numeric DB_PORT",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("DB_PORT", "not-a-port")
			},
		},
		{
			name: "invalid JWT_TOKEN_EXPIRY",
			setup: func(t *testing.T) {
				setRequiredEnv(t)
				t.Setenv("JWT_TOKEN_EXPIRY", "never")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("JWT_TOKEN_EXPIRY", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.JWT.TokenExpiry)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db", Port: 3306, User: "app", Password: "pw", DBName: "studenthub",
		},
	}
	assert.Equal(t, "app:pw@tcp(db:3306)/studenthub?parseTime=true&charset=utf8mb4", cfg.DSN())
}
