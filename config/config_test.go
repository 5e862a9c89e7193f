package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/focusflow/analyzer"
	"github.com/lixenwraith/focusflow/kv"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1280.0, cfg.CanvasWidth)
	assert.Equal(t, 300, cfg.SessionSeconds())
	assert.Equal(t, 3*time.Second, cfg.GetReady)
	assert.Equal(t, GazePointer, cfg.GazeSource)
	assert.Equal(t, analyzer.MetricsRecorded, cfg.MetricsMode())
	assert.Equal(t, kv.BackendFile, cfg.KV().Backend)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FOCUSFLOW_SESSION_DURATION", "90s")
	t.Setenv("FOCUSFLOW_GAZE_SOURCE", "synthetic")
	t.Setenv("FOCUSFLOW_METRICS", "estimate")
	t.Setenv("FOCUSFLOW_KV_BACKEND", "sqlite")
	t.Setenv("FOCUSFLOW_KV_PATH", "/tmp/ff")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.SessionSeconds())
	assert.Equal(t, GazeSynthetic, cfg.GazeSource)
	assert.Equal(t, analyzer.MetricsEstimateWhenMissing, cfg.MetricsMode())
	assert.Equal(t, "/tmp/ff/focusflow.db", cfg.KV().Path)
}

func TestDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FOCUSFLOW_CANVAS_WIDTH=640\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("FOCUSFLOW_CANVAS_WIDTH") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640.0, cfg.CanvasWidth)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	cfg.GazeSource = GazeReplay
	cfg.KVBackend = "etcd"
	cfg.Metrics = "guess"
	cfg.APIURL = "not a url"
	cfg.Timezone = "Mars/Olympus"

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"REPLAY_PATH", "etcd", "guess", "api url", "Mars/Olympus"} {
		assert.ErrorContains(t, err, want)
	}

	cfg.Offline = true
	cfg.GazeSource, cfg.KVBackend, cfg.Metrics, cfg.Timezone = GazeSynthetic, kv.BackendMemory, "recorded", "UTC"
	assert.NoError(t, cfg.Validate(), "offline skips the api url")
}

func TestServerConfig(t *testing.T) {
	t.Setenv("FOCUSFLOW_API_CORS_ORIGINS", "http://a.test,http://b.test")
	cfg, err := LoadServer(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "rule-based", cfg.ReportModel())

	cfg.OpenAIKey = "sk-test"
	assert.Equal(t, "gpt-4o-mini", cfg.ReportModel())

	cfg.ReportWorkers = 0
	assert.Error(t, cfg.Validate())
}
