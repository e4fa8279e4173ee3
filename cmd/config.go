package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"dw-bridge/internal/match"
)

// ConnectionConfig is one side of the migration in the config file, keyed
// "source" or "target".
type ConnectionConfig struct {
	Driver   string   `mapstructure:"driver"`
	DSN      string   `mapstructure:"dsn"`
	Database string   `mapstructure:"database"`
	Schemas  []string `mapstructure:"schemas"`
}

// GetConnection returns the connection config for one side.
func GetConnection(side string) (*ConnectionConfig, error) {
	if side != "source" && side != "target" {
		return nil, fmt.Errorf("unknown connection side %q (want source or target)", side)
	}

	var cfg ConnectionConfig
	if err := viper.UnmarshalKey(side, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s connection config: %w", side, err)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s.dsn is required in config", side)
	}
	if cfg.Driver == "" {
		return nil, fmt.Errorf("%s.driver is required in config", side)
	}
	return &cfg, nil
}

// MatcherFromConfig builds the shared name matcher from the matcher section.
// Absent keys fall back to the matcher defaults.
func MatcherFromConfig() *match.Matcher {
	return match.New(
		viper.GetFloat64("matcher.threshold"),
		stringsOrNil("matcher.ignore_prefixes"),
		stringsOrNil("matcher.ignore_suffixes"),
	)
}

func stringsOrNil(key string) []string {
	if !viper.IsSet(key) {
		return nil
	}
	return viper.GetStringSlice(key)
}

// SchemaOverrides returns manual schema pairings from the config.
func SchemaOverrides() map[string]string {
	return viper.GetStringMapString("overrides.schemas")
}

// TableOverrides returns manual SCHEMA.TABLE pairings from the config.
func TableOverrides() map[string]string {
	return viper.GetStringMapString("overrides.tables")
}
