// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only needs to edit that file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	EnvPrefix        string `yaml:"env_prefix"`
	HomeserverConfig string `yaml:"homeserver_config"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:          "synapse-reg",
			DisplayName:      "Synapse Registration",
			Description:      "Enable open registration in a Synapse homeserver config",
			EnvPrefix:        "SYNAPSE_REG",
			HomeserverConfig: "/data/homeserver.yaml",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "synapse-reg").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the environment variable prefix (e.g., "SYNAPSE_REG").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// HomeserverConfig returns the default path of the homeserver config file.
func HomeserverConfig() string { load(); return defaults.HomeserverConfig }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("config") → "SYNAPSE_REG_CONFIG".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
