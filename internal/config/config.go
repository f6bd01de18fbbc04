// Package config loads application configuration from an optional YAML
// file and UPKEEP_* environment variables.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
type Config struct {
	Env        string     `yaml:"env"`        // Env is the current environment: local, dev, prod.
	DBPath     string     `yaml:"db_path"`    // DBPath is the SQLite database file; empty means ~/.upkeep/upkeep.db.
	HTTPAddr   string     `yaml:"http_addr"`  // HTTPAddr is the serve listen address.
	Scheduling Scheduling `yaml:"scheduling"` // Scheduling holds alert and recurrence settings.
}

// Scheduling holds alert and recurrence settings.
type Scheduling struct {
	// HorizonDays is the upcoming-alert window width in days; a task due
	// exactly HorizonDays out is not yet alerted.
	HorizonDays int `yaml:"horizon_days"`

	// AutoFollowUp creates the next occurrence when a recurring task is
	// completed. Disable for parity with systems that only store the
	// recurrence rule.
	AutoFollowUp bool `yaml:"auto_follow_up"`
}

// MustLoad loads the configuration, panicking on a malformed config file.
// The file is optional: when UPKEEP_CONFIG is unset, defaults plus
// environment overrides apply.
func MustLoad() *Config {
	v := viper.New()
	v.SetEnvPrefix("UPKEEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("db_path", "")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("scheduling.horizon_days", 3)
	v.SetDefault("scheduling.auto_follow_up", true)

	if configPath := os.Getenv("UPKEEP_CONFIG"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	return &Config{
		Env:      v.GetString("env"),
		DBPath:   v.GetString("db_path"),
		HTTPAddr: v.GetString("http_addr"),
		Scheduling: Scheduling{
			HorizonDays:  v.GetInt("scheduling.horizon_days"),
			AutoFollowUp: v.GetBool("scheduling.auto_follow_up"),
		},
	}
}
