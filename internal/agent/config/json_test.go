package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"remote_url":            "ws://db.example:8000/rpc",
		"remote_namespace":      "prod",
		"s3_bucket":             "survey-images",
		"s3_path_style":         true,
		"online_check_interval": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "ws://db.example:8000/rpc", cfg.RemoteURL)
		assert.Equal(t, "prod", cfg.RemoteNamespace)
		assert.Equal(t, "survey-images", cfg.S3Bucket)
		assert.True(t, cfg.S3PathStyle)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			RemoteURL:           "ws://defaults:8000/rpc",
			OnlineCheckInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "ws://defaults:8000/rpc", cfg.RemoteURL)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("empty JSON values keep current config", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"database_path": "/data/surveys.db",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{RemoteURL: "ws://defaults:8000/rpc", SyncInterval: time.Minute}
		parseJson(cfg)

		assert.Equal(t, "/data/surveys.db", cfg.DatabasePath)
		assert.Equal(t, "ws://defaults:8000/rpc", cfg.RemoteURL)
		assert.Equal(t, time.Minute, cfg.SyncInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
