package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "crmd.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, cfg.HeartbeatInterval)
	assert.Equal(t, 24*time.Hour, cfg.RestockInterval)
	assert.Equal(t, 24*time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 10, cfg.RestockThreshold)
	assert.Equal(t, 10, cfg.RestockTarget)
	assert.Equal(t, 7, cfg.ReminderWindowDays)
	assert.Equal(t, "/tmp/crm_heartbeat_log.txt", cfg.HeartbeatSink)
	assert.Equal(t, "/tmp/low_stock_updates_log.txt", cfg.RestockSink)
	assert.Equal(t, "/tmp/order_reminders_log.txt", cfg.ReminderSink)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CRMD_DB_PATH", "/var/lib/crmd/crm.db")
	t.Setenv("CRMD_RESTOCK_THRESHOLD", "25")
	t.Setenv("CRMD_HEARTBEAT_INTERVAL", "30s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/crmd/crm.db", cfg.DBPath)
	assert.Equal(t, 25, cfg.RestockThreshold)
	assert.Equal(t, 30*time.Second, cfg.HeartbeatInterval)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmd.yaml")
	data := "listen_addr: \":9090\"\nreminder_window_days: 14\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 14, cfg.ReminderWindowDays)
	// Untouched keys keep their defaults.
	assert.Equal(t, "crmd.db", cfg.DBPath)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
