package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/globaltrotters/dbsetup/internal/config"
	"github.com/globaltrotters/dbsetup/internal/db"
	"github.com/globaltrotters/dbsetup/internal/setup"
)

// The report is advisory, so every outcome exits 0.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("dbsetup: %v", err)
	}
}

// newRootCmd builds the command tree and binds its flags to viper.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbsetup",
		Short: "Report on the GlobalTrotters database setup scripts",
		// Arguments and unknown flags are ignored; the report always runs.
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE:               runReport,
	}

	// A malformed flag (e.g. --seed with no value) leaves the defaults in
	// place and still runs the command.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		log.Printf("dbsetup: %v; using defaults", err)
		if cmd.RunE != nil {
			return cmd.RunE(cmd, nil)
		}
		if cmd.Run != nil {
			cmd.Run(cmd, nil)
		}
		return nil
	})

	// Defaults match the paths the web app loads on first run.
	f := rootCmd.PersistentFlags()
	f.String("dir", ".", "directory the asset paths are relative to")
	f.String("schema", setup.DefaultSchemaFile, "path to the schema SQL script")
	f.String("seed", setup.DefaultSeedFile, "path to the seed data SQL script")
	f.String("tag", setup.DefaultTag, "prefix printed on every status line")

	for _, name := range []string{"dir", "schema", "seed", "tag"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}

	// GLOBALTROTTERS_SCHEMA -> "schema", etc.
	viper.SetEnvPrefix("GLOBALTROTTERS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	rootCmd.AddCommand(
		&cobra.Command{
			Use:                "ready",
			Short:              "Print where the setup scripts live and when they run",
			Args:               cobra.ArbitraryArgs,
			FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
			RunE:               runReady,
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Dry-run the setup scripts against an in-memory SQLite database",
			Long: `Prints the setup report, then executes the schema and seed scripts in
order against a throwaway in-memory SQLite database and reports whether each
one applied cleanly. Nothing is written to disk.`,
			Args:               cobra.ArbitraryArgs,
			FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
			RunE:               runValidate,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.ArbitraryArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "dbsetup %s\n", config.Version)
			},
		},
	)

	return rootCmd
}

func newReporter(cfg config.Config) *setup.Reporter {
	r := setup.NewReporter()
	r.Dir = cfg.Dir
	r.Paths = cfg.Paths()
	r.Tag = cfg.Tag
	return r
}

func runReport(cmd *cobra.Command, args []string) error {
	newReporter(config.Load()).Report(cmd.OutOrStdout())
	return nil
}

func runReady(cmd *cobra.Command, args []string) error {
	newReporter(config.Load()).Ready(cmd.OutOrStdout())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	r := newReporter(config.Load())
	r.Report(out)

	files := make([]string, len(r.Paths))
	for i, p := range r.Paths {
		files[i] = r.Resolve(p)
	}

	results, err := db.Validate(cmd.Context(), files)
	if err != nil {
		log.Printf("validate: %v", err)
		return nil
	}

	fmt.Fprintln(out)
	for i, res := range results {
		path := r.Paths[i]
		switch res.Status {
		case db.StatusOK:
			r.Println(out, "✓ Applied "+path)
		case db.StatusSkipped:
			r.Println(out, "- Skipped "+path)
		default:
			r.Println(out, fmt.Sprintf("✗ Failed %s: %v", path, res.Err))
		}
	}
	return nil
}
