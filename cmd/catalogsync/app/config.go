package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/catalogsync/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Catalog coordinates. Empty project and location are resolved from
	// gcloud config when a client is created.
	ProjectID        string
	LocationID       string
	EntryGroupID     string
	EnableMonitoring bool
	TaskID           string
	Timeout          time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envBindings maps config keys to the environment variables that may set
// them, in order of precedence.
var envBindings = map[string][]string{
	"project_id":        {"CATALOGSYNC_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"},
	"location_id":       {"CATALOGSYNC_LOCATION_ID", "DATACATALOG_LOCATION"},
	"entry_group_id":    {"CATALOGSYNC_ENTRY_GROUP_ID"},
	"enable_monitoring": {"CATALOGSYNC_ENABLE_MONITORING", "ENABLE_MONITORING"},
	"task_id":           {"CATALOGSYNC_TASK_ID"},
	"timeout":           {"CATALOGSYNC_TIMEOUT"},
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.catalogsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindEnv()

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".catalogsync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		ProjectID:        viper.GetString("project_id"),
		LocationID:       viper.GetString("location_id"),
		EntryGroupID:     viper.GetString("entry_group_id"),
		EnableMonitoring: viper.GetBool("enable_monitoring"),
		TaskID:           viper.GetString("task_id"),
		Timeout:          viper.GetDuration("timeout"),

		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// LoadConfigFile reads the config file at path and fills the catalog
// settings that flags and environment left unset.
func (c *Config) LoadConfigFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.WrapIO("read", path, err)
	}
	c.ConfigFile = v.ConfigFileUsed()

	setIfEmpty(&c.ProjectID, v.GetString("project_id"))
	setIfEmpty(&c.LocationID, v.GetString("location_id"))
	setIfEmpty(&c.EntryGroupID, v.GetString("entry_group_id"))
	setIfEmpty(&c.TaskID, v.GetString("task_id"))
	setIfEmpty(&c.Format, v.GetString("format"))
	if !c.EnableMonitoring {
		c.EnableMonitoring = v.GetBool("enable_monitoring")
	}
	if c.Timeout == 0 {
		c.Timeout = v.GetDuration("timeout")
	}
	return nil
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindEnv binds the catalog environment variables to their config keys.
func bindEnv() {
	for key, envs := range envBindings {
		input := append([]string{key}, envs...)
		if err := viper.BindEnv(input...); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variables for %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
