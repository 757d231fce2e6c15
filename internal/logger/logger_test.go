package logger

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerServiceStartStop(t *testing.T) {
	dir := t.TempDir()
	defer log.SetOutput(os.Stderr)

	svc := NewLoggerService(map[string]interface{}{
		"max_file_mb":    float64(5), // yaml hands numbers over as float64
		"retention_days": 3,
		"folder_path":    dir,
	})
	require.Equal(t, int64(5*1024*1024), svc.maxBytes)
	require.Equal(t, 3, svc.keepDays)

	require.NoError(t, svc.Start())
	log.Println("statement service ready")
	require.NoError(t, svc.Stop())

	matches, err := filepath.Glob(filepath.Join(dir, "spendlens_*.log"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "statement service ready")
}

func TestConfigInt(t *testing.T) {
	cfg := map[string]interface{}{"a": 7, "b": float64(9), "c": "nope"}
	assert.Equal(t, 7, configInt(cfg, "a"))
	assert.Equal(t, 9, configInt(cfg, "b"))
	assert.Equal(t, 0, configInt(cfg, "c"))
	assert.Equal(t, 0, configInt(cfg, "missing"))
}
