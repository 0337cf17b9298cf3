package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/ridoystarlord/knexgen/database"
	"github.com/ridoystarlord/knexgen/introspect"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity and the configured schemas",
	Long: `Check that the database is reachable and that every configured schema
has tables to generate from.

Examples:
  knexgen health                    # Check the configured connection
  knexgen health --timeout 10s      # Set custom timeout
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkDatabaseHealth(cmd.Context(), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✅ Database is healthy and accessible")
		return nil
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth(ctx context.Context, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	pool, err := database.Open(ctx, cfg.ConnectionURL(), 1)
	if err != nil {
		return err
	}
	defer pool.Close()

	info, err := database.Describe(ctx, pool)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "🔌 Connected to %s as %s\n", info.Database, info.User)
	fmt.Fprintf(out, "   %s\n", info.Version)

	inspector := introspect.NewInspector(pool)
	for _, s := range cfg.Schemas {
		names, err := inspector.ListTables(ctx, s)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			color.New(color.FgYellow).Fprintf(out, "⚠️  Schema %s has no tables (does it exist?)\n", s)
			continue
		}
		fmt.Fprintf(out, "📊 Schema %s: %d table(s)\n", s, len(names))
	}
	return nil
}
