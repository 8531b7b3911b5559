package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_LoadsFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"http_addr":             ":7000",
		"database_dsn":          "postgres://db/sharefolio",
		"secret_key":            "json-secret",
		"session_ttl":           "15m",
		"reset_code_ttl":        "5m",
		"production":            true,
		"cors_allowed_origins":  []string{"https://sharefolio.app"},
		"smtp_host":             "smtp.gmail.com",
		"smtp_port":             465,
		"smtp_implicit_tls":     true,
		"cloudinary_cloud_name": "demo",
		"cloudinary_api_key":    "key",
		"cloudinary_api_secret": "shh",
		"shutdown_timeout":      int64(3 * time.Second),
	})
	os.Args = []string{"server", "-config", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, "postgres://db/sharefolio", c.DatabaseDSN)
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.SessionTTL)
	assert.Equal(t, 5*time.Minute, c.ResetCodeTTL)
	assert.True(t, c.Production)
	assert.Equal(t, []string{"https://sharefolio.app"}, c.CORSAllowedOrigins)
	assert.Equal(t, "smtp.gmail.com", c.SMTPHost)
	assert.Equal(t, 465, c.SMTPPort)
	assert.True(t, c.SMTPImplicitTLS)
	assert.Equal(t, "demo", c.CloudinaryCloudName)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 12, c.PasswordHashCost)
	assert.Equal(t, "portfolios", c.MediaFolder)
}

func Test_parseJson_NoFileNoChanges(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	var c, want Config
	c.LoadDefaults()
	want.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, want, c)
}

func Test_parseJson_Panics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("missing file", func(t *testing.T) {
		os.Args = []string{"server", "-c", filepath.Join(t.TempDir(), "nope.json")}
		var c Config
		assert.Panics(t, func() { parseJson(&c) })
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		os.Args = []string{"server", "-c", path}
		var c Config
		assert.Panics(t, func() { parseJson(&c) })
	})
}
