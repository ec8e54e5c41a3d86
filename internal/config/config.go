package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton
// Should be called once at application startup
func Initialize() error {
	v = viper.New()

	// Set config file name and type
	v.SetConfigName("tstl")
	v.SetConfigType("yaml")

	// Config search paths (in order of precedence)
	// 1. Current directory, so a test-suite directory can carry its
	//    own tstl.yaml
	if cwd, err := os.Getwd(); err == nil {
		v.AddConfigPath(cwd)
	}

	// 2. User config directory (~/.config/tstl/)
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "tstl"))
	}

	// 3. Home directory (~/.tstl/)
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".tstl"))
	}

	// Automatic environment variable binding
	// Environment variables take precedence over config file
	// E.g., TSTL_PATTERN, TSTL_NO_COLOR, TSTL_LOG_FILE
	v.SetEnvPrefix("TSTL")

	// Replace hyphens and dots with underscores for env var mapping
	// This allows TSTL_NO_COLOR to map to "no-color" config key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Set defaults for all keys
	v.SetDefault("pattern", "*.tstl")
	v.SetDefault("dir", ".")
	v.SetDefault("no-color", false)
	v.SetDefault("log-file", "")
	v.SetDefault("log-max-size", 10)
	v.SetDefault("log-max-backups", 3)
	v.SetDefault("log-max-age", 7)
	v.SetDefault("log-compress", true)

	// Read config file if it exists (don't error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file found but another error occurred
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found - this is ok, we'll use defaults
	}

	return nil
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// Set sets a configuration value
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
