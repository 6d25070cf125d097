package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/synapse-tools/synapse-reg/internal/branding"
	"github.com/synapse-tools/synapse-reg/internal/logging"
)

// Setting keys. Each maps to a flag of the same name with dashes and to the
// environment variable branding.EnvVar(key).
const (
	KeyConfig    = "config"
	KeyDryRun    = "dry_run"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

var (
	// ErrNoConfigPath indicates the homeserver config path resolved to empty.
	ErrNoConfigPath = errors.New("homeserver config path is empty")
	// ErrInvalidLogFormat indicates an unsupported log format.
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// Settings is the resolved configuration for one run.
type Settings struct {
	HomeserverConfig string
	DryRun           bool
	LogLevel         string
	LogFormat        string
}

// FlagName returns the command-line flag name for a setting key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// RegisterFlags adds the settings flags to fs with their defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagName(KeyConfig), "c", branding.HomeserverConfig(), "path to the homeserver config file")
	fs.Bool(FlagName(KeyDryRun), false, "print the patched config to stdout instead of writing it")
	fs.String(FlagName(KeyLogLevel), "info", "log level (debug, info, warn, error)")
	fs.String(FlagName(KeyLogFormat), logging.FormatConsole, "log format (console, json)")
}

// Load resolves settings from the flags in fs (when set), the environment,
// and defaults. fs may be nil.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, branding.HomeserverConfig())
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatConsole)

	if fs != nil {
		for _, key := range []string{KeyConfig, KeyDryRun, KeyLogLevel, KeyLogFormat} {
			flag := fs.Lookup(FlagName(key))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", flag.Name, err)
			}
		}
	}

	s := &Settings{
		HomeserverConfig: strings.TrimSpace(v.GetString(KeyConfig)),
		DryRun:           v.GetBool(KeyDryRun),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        strings.ToLower(v.GetString(KeyLogFormat)),
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	if s.HomeserverConfig == "" {
		return fmt.Errorf("%w (set --%s or %s)", ErrNoConfigPath, FlagName(KeyConfig), branding.EnvVar(KeyConfig))
	}
	switch s.LogFormat {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("%w %q: want %s or %s", ErrInvalidLogFormat, s.LogFormat, logging.FormatConsole, logging.FormatJSON)
	}
	return nil
}
