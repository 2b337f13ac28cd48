// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults for the on-disk project layout. Everything is overridable
// via config file or SHEKELFLOW_* environment variables.
const (
	defaultRawDir     = "data/raw"
	defaultDerivedDir = "data/derived"
	defaultMappingDir = "mappings"
)

// SetDefaults registers the path defaults on viper. Called once from
// the root command before any subcommand runs.
func SetDefaults() {
	viper.SetDefault("paths.raw_dir", defaultRawDir)
	viper.SetDefault("paths.derived_dir", defaultDerivedDir)
	viper.SetDefault("paths.payee_map", filepath.Join(defaultMappingDir, "payee_map.csv"))
	viper.SetDefault("paths.account_map", filepath.Join(defaultMappingDir, "account_name_map.csv"))
}

// DerivedDir returns the directory for derived outputs.
func DerivedDir() string {
	return ExpandPath(viper.GetString("paths.derived_dir"))
}

// PayeeMapPath returns the payee-map rule table location.
func PayeeMapPath() string {
	return ExpandPath(viper.GetString("paths.payee_map"))
}

// AccountMapPath returns the account-name mapping table location.
func AccountMapPath() string {
	return ExpandPath(viper.GetString("paths.account_map"))
}

// MatchedPairsPath returns the default matched-pairs output location.
func MatchedPairsPath() string {
	return filepath.Join(DerivedDir(), "matched_pairs.csv")
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
