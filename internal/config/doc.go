// Package config manages user-level settings stored at ~/.boiler/config.yaml.
// Values can be overridden with BOILER_* environment variables and, for the
// keys bound by the CLI, with command-line flags.
package config
