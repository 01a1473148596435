package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/boiler-labs/boiler/internal/branding"
	"github.com/spf13/viper"
)

const fileType = "yaml"

// Recognized configuration keys.
const (
	KeyPackageManager   = "package_manager"
	KeyGitBinary        = "git_binary"
	KeyInitTimeout      = "init_timeout"
	KeyInstallTimeout   = "install_timeout"
	KeyParallelInstalls = "parallel_installs"
	KeySkipInstall      = "skip_install"
	KeyNodeConstraint   = "node_constraint"
)

var knownKeys = []string{
	KeyPackageManager,
	KeyGitBinary,
	KeyInitTimeout,
	KeyInstallTimeout,
	KeyParallelInstalls,
	KeySkipInstall,
	KeyNodeConstraint,
}

// Settings is the resolved configuration for a single run.
type Settings struct {
	PackageManager   string
	GitBinary        string
	InitTimeout      time.Duration
	InstallTimeout   time.Duration
	ParallelInstalls bool
	SkipInstall      bool
	NodeConstraint   string
}

// Dir returns the path to the config directory (~/.boiler/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.boiler/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), branding.ConfigFile())
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetDefault(KeyPackageManager, "npm")
	viper.SetDefault(KeyGitBinary, "git")
	viper.SetDefault(KeyInitTimeout, 2*time.Minute)
	viper.SetDefault(KeyInstallTimeout, 10*time.Minute)
	viper.SetDefault(KeyParallelInstalls, false)
	viper.SetDefault(KeySkipInstall, false)
	viper.SetDefault(KeyNodeConstraint, ">=18")

	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the settings resolved from defaults, file, env and bound flags.
func Current() Settings {
	return Settings{
		PackageManager:   viper.GetString(KeyPackageManager),
		GitBinary:        viper.GetString(KeyGitBinary),
		InitTimeout:      viper.GetDuration(KeyInitTimeout),
		InstallTimeout:   viper.GetDuration(KeyInstallTimeout),
		ParallelInstalls: viper.GetBool(KeyParallelInstalls),
		SkipInstall:      viper.GetBool(KeySkipInstall),
		NodeConstraint:   viper.GetString(KeyNodeConstraint),
	}
}

// IsKnownKey reports whether key is a recognized configuration key.
func IsKnownKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

// Keys returns the recognized configuration keys.
func Keys() []string {
	return slices.Clone(knownKeys)
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
