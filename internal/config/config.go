package config

import "github.com/spf13/viper"

// Version is stamped by the release build with
// -ldflags "-X github.com/globaltrotters/dbsetup/internal/config.Version=...".
var Version = "dev"

// Config holds the runtime configuration for the setup reporter.
// Values come from flags or GLOBALTROTTERS_* env vars via viper.
type Config struct {
	Dir        string
	SchemaFile string
	SeedFile   string
	Tag        string
}

// Load snapshots the current viper state. Flag defaults and env bindings
// are registered by newRootCmd in the dbsetup binary.
func Load() Config {
	return Config{
		Dir:        viper.GetString("dir"),
		SchemaFile: viper.GetString("schema"),
		SeedFile:   viper.GetString("seed"),
		Tag:        viper.GetString("tag"),
	}
}

// Paths returns the asset paths in check order: schema, then seed.
func (c Config) Paths() []string {
	return []string{c.SchemaFile, c.SeedFile}
}
