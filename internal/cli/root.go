package cli

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/synapse-tools/synapse-reg/internal/branding"
	"github.com/synapse-tools/synapse-reg/internal/config"
	"github.com/synapse-tools/synapse-reg/internal/homeserver"
	"github.com/synapse-tools/synapse-reg/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Resolved by PersistentPreRunE before any command runs.
var (
	settings *config.Settings
	logger   = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` sets enable_registration and
enable_registration_without_verification to true in a Synapse homeserver
config and rewrites the file in place. All other settings are kept.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		settings = s
		logger = logging.New(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
		return nil
	},
	RunE: runEnable,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// Execute runs the root command with build info injected via ldflags.
// Errors are logged to stderr before being returned.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	settings = nil
	logger = zerolog.Nop()

	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if settings == nil {
		// Settings never loaded, e.g. a flag parse error.
		logger = logging.New(rootCmd.ErrOrStderr(), "info", logging.FormatConsole)
	}
	logger.Error().Err(err).Msg(branding.CLIName() + " failed")
	return err
}

func runEnable(cmd *cobra.Command, args []string) error {
	path := settings.HomeserverConfig
	log := logger.With().Str("path", path).Logger()
	out := cmd.OutOrStdout()

	if settings.DryRun {
		rendered, err := homeserver.Preview(path)
		if err != nil {
			return fmt.Errorf("previewing registration change: %w", err)
		}
		if _, err := out.Write(rendered); err != nil {
			return fmt.Errorf("writing dry-run output: %w", err)
		}
		log.Info().Msg("dry run: config not written")
		return nil
	}

	result, err := homeserver.EnableRegistration(path)
	if err != nil {
		return fmt.Errorf("enabling registration: %w", err)
	}
	if !result.Changed {
		log.Info().Msg("registration flags were already enabled")
	}
	log.Debug().Int("bytes", len(result.Rendered)).Msg("homeserver config written")

	fmt.Fprintf(out, "Registration enabled in %s\n", filepath.Base(result.Path))
	return nil
}
