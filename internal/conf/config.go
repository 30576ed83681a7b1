// config.go: settings struct and functions to load and validate the
// application configuration.
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/trait"
)

// InputSettings points at the tabular inputs of one run.
type InputSettings struct {
	ZoneFile      string // zone universe table (zone_id + attributes)
	SurveyFile    string // survey point table
	TraitFile     string // species trait reference table
	TraitEncoding string // trait file encoding: "euc-kr" or "utf-8"
}

// EnrichmentSettings controls the enrichment step.
type EnrichmentSettings struct {
	// PlaceholderPolicy is "drop" or "fallback"; it is fixed for a run
	// and applies uniformly to every index computed from it.
	PlaceholderPolicy string
}

// IndicesSettings carries per-index static configuration.
type IndicesSettings struct {
	// TrophicScores is the 3-entry score table for the trophic coverage
	// index, ordered from all tiers present to a single tier.
	TrophicScores []float64
}

// SQLiteSettings configures SQLite result storage.
type SQLiteSettings struct {
	Enabled bool
	Path    string
}

// MySQLSettings configures MySQL result storage.
type MySQLSettings struct {
	Enabled  bool
	Username string
	Password string
	Database string
	Host     string
	Port     string
}

// CSVSettings configures CSV result export.
type CSVSettings struct {
	Enabled bool
	Path    string // output directory
}

// OutputSettings selects where index tables are written.
type OutputSettings struct {
	SQLite SQLiteSettings
	MySQL  MySQLSettings
	CSV    CSVSettings
}

// LogSettings configures optional rotating file logging.
type LogSettings struct {
	File string // log file path; empty disables file logging
}

// Settings is the full application configuration.
type Settings struct {
	Debug      bool
	Log        LogSettings
	Input      InputSettings
	Enrichment EnrichmentSettings
	Indices    IndicesSettings
	Output     OutputSettings
}

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Setting returns the global settings instance, loading it on first use.
func Setting() *Settings {
	once.Do(func() {
		settingsMutex.Lock()
		defer settingsMutex.Unlock()
		if settingsInstance == nil {
			loaded, err := Load()
			if err != nil {
				panic(fmt.Sprintf("error loading settings: %v", err))
			}
			settingsInstance = loaded
		}
	})
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// Load reads the configuration file (if any), applies defaults and
// validates the result.
func Load() (*Settings, error) {
	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling settings: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper initializes viper with default values and reads the
// configuration file. A missing config file is not an error; defaults
// apply.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := getDefaultConfigPaths()
	if err != nil {
		return err
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaultConfig registers the built-in defaults.
func setDefaultConfig() {
	viper.SetDefault("debug", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("input.traitencoding", "euc-kr")
	viper.SetDefault("enrichment.placeholderpolicy", "drop")
	viper.SetDefault("indices.trophicscores", []float64{1.0, 0.6, 0.3})
	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "foodchain.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.csv.enabled", true)
	viper.SetDefault("output.csv.path", "results")
}

// getDefaultConfigPaths returns the configuration search paths for the
// current platform, working directory first.
func getDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "get-home-directory").
			Build()
	}

	return []string{
		".",
		filepath.Join(homeDir, ".config", "foodchain-go"),
		"/etc/foodchain-go",
	}, nil
}

// ValidateSettings checks constraints the rest of the pipeline relies on.
func ValidateSettings(settings *Settings) error {
	if len(settings.Indices.TrophicScores) != trait.TierCount {
		return errors.Newf("indices.trophicscores must have exactly %d entries, got %d",
			trait.TierCount, len(settings.Indices.TrophicScores)).
			Category(errors.CategoryConfiguration).
			Build()
	}

	switch settings.Enrichment.PlaceholderPolicy {
	case "drop", "fallback":
	default:
		return errors.Newf("enrichment.placeholderpolicy must be \"drop\" or \"fallback\", got %q",
			settings.Enrichment.PlaceholderPolicy).
			Category(errors.CategoryConfiguration).
			Build()
	}

	switch settings.Input.TraitEncoding {
	case "euc-kr", "utf-8":
	default:
		return errors.Newf("input.traitencoding must be \"euc-kr\" or \"utf-8\", got %q",
			settings.Input.TraitEncoding).
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Output.SQLite.Enabled && settings.Output.SQLite.Path == "" {
		return errors.Newf("output.sqlite.path is required when sqlite output is enabled").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if settings.Output.MySQL.Enabled && settings.Output.MySQL.Database == "" {
		return errors.Newf("output.mysql.database is required when mysql output is enabled").
			Category(errors.CategoryConfiguration).
			Build()
	}

	return nil
}

// SaveSettings writes the settings to a YAML file.
func SaveSettings(settings *Settings, path string) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "marshal-settings").
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Category(errors.CategoryFileIO).
				Context("operation", "create-config-dir").
				Build()
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "write-config").
			Build()
	}

	return nil
}
