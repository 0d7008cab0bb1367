// =============================================================================
// ONIX Export - Configuration Module
// =============================================================================
//
// This module loads the three layers of configuration used by an export:
//
//   1. Settings (onixexport.yaml, ONIXEXPORT_* env vars, .env files): where
//      to read and write, logging, concurrency, CSV input options. Loaded
//      with viper.
//   2. Column mapping (columns.yaml): header names of the master catalogue
//      sheet. Loaded with yaml.v3, see columns.go.
//   3. Publisher defaults: the CONFIG sheet inside the workbook itself,
//      see publisher.go.
//
// =============================================================================

package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. ONIXEXPORT_MASTER_SHEET=Catalogue.
const EnvPrefix = "ONIXEXPORT"

// =============================================================================
// SETTINGS STRUCTURE
// =============================================================================

// Settings holds the application settings.
type Settings struct {
	// MasterSheet is the name of the catalogue sheet in the workbook.
	// When empty the books_sheet key of the CONFIG sheet is used, then
	// "Master_Site", then the first sheet carrying identifier and title
	// columns.
	// Default: ""
	MasterSheet string `mapstructure:"master_sheet"`

	// ConfigSheet is the name of the publisher key/value sheet.
	// Default: "CONFIG"
	ConfigSheet string `mapstructure:"config_sheet"`

	// OutputDir is where generated files go when no explicit path is given.
	// Default: "./onix"
	OutputDir string `mapstructure:"output_dir"`

	// OutputNameFormat names generated XML files.
	// Placeholders:
	//   {original}  - input file name without extension
	//   {uuid}      - a random UUID
	//   {timestamp} - YYYYMMDD_HHMMSS
	//   {date}      - YYYYMMDD
	// Default: "onix_{original}_{date}.xml"
	OutputNameFormat string `mapstructure:"output_name_format"`

	// Report controls whether a QA report is written next to generated
	// files when no explicit report path is given.
	// Default: true
	Report bool `mapstructure:"report"`

	// Strict is passed through to the exporter. It is informational only.
	// Default: false
	Strict bool `mapstructure:"strict"`

	// ColumnsFile is an optional YAML column mapping.
	// Default: "" (built-in French master sheet headers)
	ColumnsFile string `mapstructure:"columns_file"`

	// MaxConcurrency is the number of workbooks exported at once.
	// Default: 4
	MaxConcurrency int `mapstructure:"max_concurrency"`

	// Logging configures the zerolog logger.
	Logging LoggingSettings `mapstructure:"logging"`

	// CSV configures catalogue input given as CSV instead of a workbook.
	CSV CSVSettings `mapstructure:"csv"`
}

// LoggingSettings configures logging output.
type LoggingSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `mapstructure:"level"`

	// Format is "console" or "json".
	// Default: "console"
	Format string `mapstructure:"format"`

	NoColor bool `mapstructure:"no_color"`
}

// CSVSettings configures CSV catalogue input.
type CSVSettings struct {
	// Delimiter is ",", ";", "tab", "|" or "auto".
	// Default: "auto"
	Delimiter string `mapstructure:"delimiter"`

	// Encoding is "utf-8", "windows-1252", "iso-8859-1", "iso-8859-15"
	// or "auto".
	// Default: "auto"
	Encoding string `mapstructure:"encoding"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load reads settings from configPath (optional), the environment and the
// built-in defaults, in increasing order of precedence: defaults < file <
// environment.
//
// Variables from .env.local and .env in the working directory are added to
// the environment first. Variables already set are left alone.
//
// A missing default config file is not an error. A config file that was
// named explicitly but cannot be read is.
func Load(configPath string) (*Settings, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("onixexport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "reading config file %q", configPath)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decoding settings")
	}

	applyDefaults(&s)
	return &s, nil
}

// Default returns the settings used when no file or environment is present.
func Default() *Settings {
	s := &Settings{}
	applyDefaults(s)
	s.Report = true
	return s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("master_sheet", "")
	v.SetDefault("config_sheet", DefaultConfigSheet)
	v.SetDefault("output_dir", "./onix")
	v.SetDefault("output_name_format", "onix_{original}_{date}.xml")
	v.SetDefault("report", true)
	v.SetDefault("strict", false)
	v.SetDefault("columns_file", "")
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)
	v.SetDefault("csv.delimiter", "auto")
	v.SetDefault("csv.encoding", "auto")
}

// applyDefaults fills values that were set to their zero value explicitly.
func applyDefaults(s *Settings) {
	if s.ConfigSheet == "" {
		s.ConfigSheet = DefaultConfigSheet
	}
	if s.OutputDir == "" {
		s.OutputDir = "./onix"
	}
	if s.OutputNameFormat == "" {
		s.OutputNameFormat = "onix_{original}_{date}.xml"
	}
	if s.MaxConcurrency <= 0 {
		s.MaxConcurrency = 4
	}
	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	if s.Logging.Format == "" {
		s.Logging.Format = "console"
	}
	if s.CSV.Delimiter == "" {
		s.CSV.Delimiter = "auto"
	}
	if s.CSV.Encoding == "" {
		s.CSV.Encoding = "auto"
	}
}
