// =============================================================================
// ONIX Export - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (onixexport)
//   ├── exportCmd  (onixexport export <files>...)
//   ├── checkCmd   (onixexport check <files>...)
//   └── versionCmd (onixexport version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads settings (--config, onixexport.yaml, ONIXEXPORT_* variables)
//   2. Sets up the zerolog logger
//
// =============================================================================

package cmd

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/onix-export/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the settings file. Empty means onixexport.yaml
// in the working directory or ./config, if present.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// settings and logger are set up by the root PersistentPreRunE.
var (
	settings = config.Default()
	logger   = zerolog.Nop()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "onixexport",
	Short: "Export book catalogue workbooks to ONIX 3.0",
	Long: `onixexport turns a publisher's catalogue workbook into an ONIX 3.0
reference feed for distributors and online retailers.

Every active row of the master sheet becomes one <Product>. Rows that cannot
be exported, and fields that were dropped or defaulted, are listed in a QA
report written next to the feed.

Example Usage:
  onixexport export catalogue.xlsx                 # onix/onix_catalogue_<date>.xml
  onixexport export catalogue.xlsx --out feed.xml  # explicit output file
  onixexport export ./catalogues/ --out ./feeds    # every workbook in a directory
  onixexport check feed.xml                        # structural checks`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if verbose {
			s.Logging.Level = "debug"
		}
		settings = s
		logger = initLogger(settings.Logging, os.Stderr)
		logger.Debug().
			Str("output_dir", settings.OutputDir).
			Int("max_concurrency", settings.MaxConcurrency).
			Msg("settings loaded")
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to the settings file (default onixexport.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// initLogger builds the process logger. Logs go to w so that stdout stays
// free for the run summary.
func initLogger(cfg config.LoggingSettings, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := w
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
