package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-booking/internal/config"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.StorageFile, cfg.Storage)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.InDelta(t, 5.0, cfg.RateLimitRPS, 0.001)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, filepath.Join(".", "users.txt"), cfg.UsersPath())
	assert.Equal(t, filepath.Join(".", "appointments.txt"), cfg.AppointmentsPath())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/clinic")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PASSWORD_HASHING", "bcrypt")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "bcrypt", cfg.PasswordHashing)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, filepath.Join("/var/lib/clinic", "appointments.txt"), cfg.AppointmentsPath())
}

func TestEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nLOG_LEVEL=debug\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")
	// godotenv sets JWT_SECRET for the process; clean it up afterwards
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestInvalidStorage(t *testing.T) {
	t.Setenv("STORAGE", "redis")
	_, err := config.Load(noEnvFile(t))
	assert.Error(t, err)
}
