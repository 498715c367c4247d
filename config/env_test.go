package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFiles_Precedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_port": 8081, "store_driver": "database", "jwt_ttl": "2h"}`)
	envPath := writeFile(t, dir, ".env", "# comment\nAPP_PORT=9090\nJWT_SECRET='s3cret'\n")

	t.Setenv("RATE_LIMIT", "10")

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, "9090", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "s3cret", get("JWT_SECRET", ""))
	assert.Equal(t, "database", get("STORE_DRIVER", ""))
	assert.Equal(t, 2*time.Hour, duration("JWT_TTL", time.Minute))
	assert.Equal(t, "10", get("RATE_LIMIT", ""), "environment wins")
}

func TestLoadFromFiles_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".nope")))
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
	assert.Equal(t, defaultStoreDriver, get("STORE_DRIVER", ""))
}

func TestLoadFromFiles_BadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)

	err := loadFromFiles(jsonPath, filepath.Join(dir, ".env"))
	assert.Error(t, err)
}

func TestDuration_Fallback(t *testing.T) {
	mu.Lock()
	values = map[string]string{"JWT_TTL": "soon"}
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		values = defaultValues()
		mu.Unlock()
	})

	assert.Equal(t, defaultJWTTTL, duration("JWT_TTL", defaultJWTTTL))
}
