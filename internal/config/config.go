// Package config loads runtime configuration from defaults, an optional
// config file, and CRMD_-prefixed environment variables, in increasing
// precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Sweep intervals and thresholds are
// configuration, not core logic: the sweeps receive them from here.
type Config struct {
	// DBPath is the SQLite database file path.
	DBPath string `mapstructure:"db_path"`

	// ListenAddr is the API server bind address.
	ListenAddr string `mapstructure:"listen_addr"`

	// APIBaseURL is where sweeps reach the API (they are ordinary clients).
	APIBaseURL string `mapstructure:"api_base_url"`

	// HTTPTimeout bounds every sweep round trip.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	RestockInterval   time.Duration `mapstructure:"restock_interval"`
	ReminderInterval  time.Duration `mapstructure:"reminder_interval"`

	RestockThreshold   int `mapstructure:"restock_threshold"`
	RestockTarget      int `mapstructure:"restock_target"`
	ReminderWindowDays int `mapstructure:"reminder_window_days"`

	HeartbeatSink string `mapstructure:"heartbeat_sink"`
	RestockSink   string `mapstructure:"restock_sink"`
	ReminderSink  string `mapstructure:"reminder_sink"`
}

// Load reads configuration. file may be empty, in which case only defaults
// and environment variables apply.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "crmd.db")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("http_timeout", 5*time.Second)
	v.SetDefault("heartbeat_interval", 5*time.Minute)
	v.SetDefault("restock_interval", 24*time.Hour)
	v.SetDefault("reminder_interval", 24*time.Hour)
	v.SetDefault("restock_threshold", 10)
	v.SetDefault("restock_target", 10)
	v.SetDefault("reminder_window_days", 7)
	v.SetDefault("heartbeat_sink", "/tmp/crm_heartbeat_log.txt")
	v.SetDefault("restock_sink", "/tmp/low_stock_updates_log.txt")
	v.SetDefault("reminder_sink", "/tmp/order_reminders_log.txt")

	v.SetEnvPrefix("CRMD")
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
