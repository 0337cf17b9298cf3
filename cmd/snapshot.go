package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/ridoystarlord/knexgen/database"
	"github.com/ridoystarlord/knexgen/introspect"
	"github.com/ridoystarlord/knexgen/loader"
	"github.com/ridoystarlord/knexgen/runner"
	"github.com/spf13/cobra"
)

var snapshotOutput string

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "knexgen.snapshot.yaml", "Snapshot file to write")
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the catalog of the selected tables to a YAML file",
	Long: `Read the selected tables from the database and save their columns and
constraints to a YAML snapshot. A snapshot can be reviewed, edited and fed
back with generate --snapshot or validate --snapshot, without a database.

Examples:
  knexgen snapshot                          # public schema to knexgen.snapshot.yaml
  knexgen snapshot -s audit -o audit.yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := database.Open(ctx, cfg.ConnectionURL(), cfg.Concurrency+1)
		if err != nil {
			return err
		}
		defer pool.Close()

		collected, err := runner.Collect(ctx, introspect.NewInspector(pool), runnerOptions())
		if err != nil {
			return err
		}

		source := ""
		if info, err := database.Describe(ctx, pool); err == nil {
			source = info.Database
		}

		snap, err := loader.NewSnapshot(source, time.Now().UTC(), collected)
		if err != nil {
			return err
		}
		if err := loader.SaveSnapshot(snapshotOutput, snap); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✅ Saved %d table(s) to %s\n", len(snap.Tables), snapshotOutput)
		return nil
	},
}
