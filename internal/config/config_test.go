package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relcore/relcore/internal/bufferpool"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesStorageAndBuffer(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  data_dir: ./data
  table: orders.tbl
buffer:
  num_frames: 32
  policy: lru
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "./data", cfg.Storage.DataDir)
	require.Equal(t, "orders.tbl", cfg.Storage.Table)
	require.Equal(t, 32, cfg.Buffer.NumFrames)
	require.Equal(t, bufferpool.LRU, cfg.Policy())
}

func TestLoad_DefaultsNumFramesWhenUnset(t *testing.T) {
	path := writeConfigFile(t, `
storage:
  table: orders.tbl
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 16, cfg.Buffer.NumFrames)
	require.Equal(t, bufferpool.FIFO, cfg.Policy())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
