// Package branding holds the identity of the CLI: its command name, the
// dot-directory under $HOME and the environment variable prefix.
//
// Values come from the embedded branding.yaml.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

type identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	ConfigFile  string `yaml:"config_file"`
	EnvPrefix   string `yaml:"env_prefix"`
}

var current = sync.OnceValue(func() identity {
	id := identity{
		CLIName:     "boiler",
		DisplayName: "Boiler",
		Description: "Boilerplate generator for backend projects",
		HomeDir:     ".boiler",
		ConfigFile:  "config.yaml",
		EnvPrefix:   "BOILER",
	}
	_ = yaml.Unmarshal(rawBranding, &id)
	return id
})

// CLIName returns the root command name.
func CLIName() string { return current().CLIName }

// DisplayName returns the product name used in help text.
func DisplayName() string { return current().DisplayName }

// Description returns the one-line product description.
func Description() string { return current().Description }

// HomeDir returns the dot-directory name under $HOME.
func HomeDir() string { return current().HomeDir }

// ConfigFile returns the config file name inside HomeDir.
func ConfigFile() string { return current().ConfigFile }

// EnvPrefix returns the environment variable prefix.
func EnvPrefix() string { return current().EnvPrefix }

// EnvVar returns the prefixed variable for a setting: EnvVar("skip-install")
// is "BOILER_SKIP_INSTALL".
func EnvVar(suffix string) string {
	suffix = strings.ReplaceAll(suffix, "-", "_")
	return current().EnvPrefix + "_" + strings.ToUpper(suffix)
}
