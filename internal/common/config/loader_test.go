package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DevModeUsesMemoryStore(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: mongo
  dev_mode: true
notifications:
  provider: ses
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, ProviderLog, cfg.Notifications.Provider)
	assert.True(t, cfg.Submission.StrictPositions)
	assert.Equal(t, 5, cfg.Submission.IDAttempts)
	assert.Equal(t, "standards_recruitment", cfg.Database.Mongo.Database)
	assert.Equal(t, "applications", cfg.Database.Mongo.Collection)
	assert.Equal(t, "smtp.gmail.com", cfg.Integrations.SMTP.Host)
	assert.Equal(t, 587, cfg.Integrations.SMTP.Port)
	assert.Equal(t, "2025-2026", cfg.App.RecruitmentYear)
}

func TestLoadFromFile_LegacyEnvironmentVariables(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("NODEMAILER_HOST", "smtp.example.com")
	t.Setenv("NODEMAILER_PORT", "2525")
	t.Setenv("NODEMAILER_USER", "recruitment@example.com")
	t.Setenv("NODEMAILER_PASS", "app-password")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("ADMIN_PHONE", "9876543210")
	t.Setenv("PORT", "8080")

	path := writeConfig(t, "storage:\n  driver: mongo\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.Mongo.URI)
	assert.Equal(t, "smtp.example.com", cfg.Integrations.SMTP.Host)
	assert.Equal(t, 2525, cfg.Integrations.SMTP.Port)
	assert.Equal(t, "recruitment@example.com", cfg.Notifications.FromEmail)
	assert.Equal(t, "admin@example.com", cfg.Admin.Email)
	assert.Equal(t, "secret", cfg.Admin.Password)
	assert.Equal(t, "9876543210", cfg.Admin.Phone)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("PORTAL_PG_HOST", "db.internal")
	path := writeConfig(t, `
storage:
  driver: postgres
database:
  postgres:
    host: ${PORTAL_PG_HOST}
    user: portal
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, "host=db.internal port=5432 user=portal password= dbname=standards_recruitment sslmode=disable",
		cfg.Database.Postgres.GetDSN())
}

func TestLoadFromFile_AutomaticEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_REDIS_ADDRESS", "localhost:6379")
	path := writeConfig(t, `
storage:
  driver: memory
rate_limit:
  enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "mongo without uri",
			body:    "storage:\n  driver: mongo\n",
			wantErr: "database.mongo.uri is required",
		},
		{
			name:    "unknown driver",
			body:    "storage:\n  driver: cassandra\n",
			wantErr: "unknown storage.driver",
		},
		{
			name:    "elasticsearch without addresses",
			body:    "storage:\n  driver: elasticsearch\n",
			wantErr: "database.elasticsearch.addresses is required",
		},
		{
			name:    "rate limit without redis",
			body:    "storage:\n  driver: memory\nrate_limit:\n  enabled: true\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "nats queue without url",
			body:    "storage:\n  driver: memory\nnotifications:\n  queue: nats\n",
			wantErr: "integrations.nats.url is required",
		},
		{
			name:    "unknown provider",
			body:    "storage:\n  driver: memory\nnotifications:\n  provider: pigeon\n",
			wantErr: "unknown notifications.provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGODB_URI", "")
			t.Setenv("DEV_MODE", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, int64(1500), GetDuration(1500).Milliseconds())
}
