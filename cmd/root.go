package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ridoystarlord/knexgen/config"
	"github.com/ridoystarlord/knexgen/database"
	"github.com/ridoystarlord/knexgen/introspect"
	"github.com/ridoystarlord/knexgen/loader"
	"github.com/ridoystarlord/knexgen/logger"
	"github.com/ridoystarlord/knexgen/runner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "knexgen",
	Short: "Generate knex migrations from an existing PostgreSQL schema",
	Long: `knexgen reads tables from a PostgreSQL catalog and writes one knex
migration per table that recreates its columns, defaults and keys.

Examples:

  knexgen init
  knexgen health
  knexgen generate
  knexgen generate --schema public,audit --clean
  knexgen snapshot -o catalog.yaml
  knexgen generate --snapshot catalog.yaml --dry-run
`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var (
	configFile  string
	verbose     bool
	quiet       bool
	databaseURL string
	schemas     []string
	exclude     []string
	tables      []string
	concurrency int

	cfg config.Config
)

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "Config file (default "+config.DefaultFile+" if present)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	pf.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (overrides DATABASE_URL)")
	pf.StringSliceVarP(&schemas, "schema", "s", nil, "Schemas to read (default public)")
	pf.StringSliceVar(&exclude, "exclude", nil, "Table patterns to skip, as table or schema.table globs")
	pf.StringSliceVarP(&tables, "table", "t", nil, "Only these tables (table or schema.table)")
	pf.IntVarP(&concurrency, "concurrency", "j", 0, "Tables processed in parallel")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig layers config file, environment and flags into cfg.
func loadConfig(cmd *cobra.Command, args []string) error {
	switch {
	case verbose:
		logger.SetLevel(logger.LevelDebug)
	case quiet:
		logger.SetLevel(logger.LevelError)
	default:
		logger.SetLevel(logger.LevelInfo)
	}

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("database-url") {
		loaded.DatabaseURL = databaseURL
	}
	if flags.Changed("schema") {
		loaded.Schemas = schemas
	}
	if flags.Changed("exclude") {
		loaded.Exclude = exclude
	}
	if flags.Changed("concurrency") {
		loaded.Concurrency = concurrency
	}
	if err := applyCommandFlags(cmd, &loaded); err != nil {
		return err
	}

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	logger.Debug("config: schemas=%v output=%s format=%s concurrency=%d", cfg.Schemas, cfg.OutputDir, cfg.Format, cfg.Concurrency)
	return nil
}

// applyCommandFlags copies the flags some subcommands define over cfg.
func applyCommandFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	var err error
	if f := flags.Lookup("output"); f != nil && f.Changed && cmd == generateCmd {
		c.OutputDir = f.Value.String()
	}
	if f := flags.Lookup("format"); f != nil && f.Changed && cmd == generateCmd {
		c.Format = f.Value.String()
	}
	if f := flags.Lookup("clean"); f != nil && f.Changed {
		c.Clean, err = flags.GetBool("clean")
		if err != nil {
			return err
		}
	}
	if f := flags.Lookup("composite-fks"); f != nil && f.Changed {
		c.CompositeForeignKeys, err = flags.GetBool("composite-fks")
		if err != nil {
			return err
		}
	}
	return nil
}

// openCatalog returns the snapshot when one is named, or an inspector on a
// fresh connection pool. The returned func releases it.
func openCatalog(ctx context.Context, snapshotFile string) (runner.Catalog, func(), error) {
	if snapshotFile != "" {
		s, err := loader.LoadSnapshot(snapshotFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using snapshot %s (%d tables)", snapshotFile, len(s.Tables))
		return s, func() {}, nil
	}

	pool, err := database.Open(ctx, cfg.ConnectionURL(), cfg.Concurrency+1)
	if err != nil {
		return nil, nil, err
	}
	return introspect.NewInspector(pool), pool.Close, nil
}

func runnerOptions() runner.Options {
	return runner.Options{
		Schemas:     cfg.Schemas,
		Tables:      tables,
		Exclude:     cfg.Excluded,
		Generate:    cfg.Options(),
		Concurrency: cfg.Concurrency,
	}
}
