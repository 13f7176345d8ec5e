package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/ticketchat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(
		config.WithEnvFile(filepath.Join(t.TempDir(), "missing.env")),
		config.WithLookup(noEnv),
	)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "models/gemini-2.0-flash", cfg.Model.Name)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
}

func TestLoad_Precedence(t *testing.T) {
	file := writeFile(t, "ticketchat.yaml", `
log:
  level: debug
model:
  name: models/from-file
  temperature: 0.2
  top_k: 10
jira:
  base_url: https://file.example.com
  page_size: 25
  timeout: 5s
redis:
  ttl: 90s
`)
	envFile := writeFile(t, ".env", "JIRA_BASE_URL=https://dotenv.example.com\nJIRA_PAT=from-dotenv\nMODEL_NAME=models/from-dotenv\n")

	cfg, err := config.Load(
		config.WithFile(file),
		config.WithEnvFile(envFile),
		config.WithLookup(envOf(map[string]string{
			"MODEL_NAME":     "models/from-env",
			"GOOGLE_API_KEY": "key",
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 0.2, cfg.Model.Temperature)
	assert.Equal(t, 10, cfg.Model.TopK)
	assert.Equal(t, 0.95, cfg.Model.TopP, "unset keys keep defaults")
	assert.Equal(t, 25, cfg.Jira.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Jira.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)

	assert.Equal(t, "https://dotenv.example.com", cfg.Jira.BaseURL, ".env beats the file")
	assert.Equal(t, "from-dotenv", cfg.Jira.Token)
	assert.Equal(t, "models/from-env", cfg.Model.Name, "environment beats .env")
	assert.Equal(t, "key", cfg.Model.APIKey)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(config.WithFile(filepath.Join(t.TempDir(), "nope.yaml")), config.WithLookup(noEnv))
	assert.Error(t, err, "explicit file must exist")

	bad := writeFile(t, "bad.yaml", "jira:\n  page_sise: 10\n")
	_, err = config.Load(config.WithFile(bad), config.WithEnvFile(""), config.WithLookup(noEnv))
	assert.Error(t, err, "unknown keys are rejected")

	broken := writeFile(t, "broken.yaml", "model: [unclosed")
	_, err = config.Load(config.WithFile(broken), config.WithEnvFile(""), config.WithLookup(noEnv))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JIRA_BASE_URL")
	assert.Contains(t, err.Error(), "JIRA_PAT")
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")

	cfg.Fixtures = "tickets.yaml"
	assert.NoError(t, cfg.Validate(), "offline mode needs no credentials")

	cfg.Model.Temperature = 3
	cfg.Log.Format = "xml"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoad_Sessions(t *testing.T) {
	file := writeFile(t, "ticketchat.yaml", `
sessions:
  backend: memory
  ttl: 1h
`)
	cfg, err := config.Load(
		config.WithFile(file),
		config.WithEnvFile(""),
		config.WithLookup(envOf(map[string]string{
			"TICKETCHAT_SESSION_REDACT": "true",
			"TICKETCHAT_SESSION_DIR":    "/var/lib/ticketchat",
		})),
	)
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, cfg.Sessions.Backend)
	assert.Equal(t, time.Hour, cfg.Sessions.TTL)
	assert.Equal(t, "/var/lib/ticketchat", cfg.Sessions.Dir)
	assert.True(t, cfg.Sessions.Redact)
}

func TestValidate_Sessions(t *testing.T) {
	cfg := config.Default()
	cfg.Fixtures = "tickets.yaml"
	assert.Equal(t, config.BackendFile, cfg.Sessions.Backend)

	cfg.Sessions.Backend = config.BackendRedis
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TICKETCHAT_REDIS_URL")

	cfg.Redis.URL = "redis://localhost:6379/0"
	assert.NoError(t, cfg.Validate())

	cfg.Sessions.Backend = "sqlite"
	assert.ErrorContains(t, cfg.Validate(), "sessions.backend")

	cfg.Sessions.Backend = config.BackendFile
	cfg.Sessions.EncryptionKey = "not base64!"
	assert.ErrorContains(t, cfg.Validate(), "base64")

	cfg.Sessions.EncryptionKey = "c2hvcnQ="
	assert.ErrorContains(t, cfg.Validate(), "32 bytes")
}

func TestSessionConfig_Key(t *testing.T) {
	key, err := config.SessionConfig{}.Key()
	require.NoError(t, err)
	assert.Nil(t, key)

	key, err = config.SessionConfig{EncryptionKey: "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="}.Key()
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), key)
}
