package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/ridoystarlord/knexgen/runner"
	"github.com/ridoystarlord/knexgen/writer"
	"github.com/spf13/cobra"
)

var (
	generateSnapshot string
	dryRunGenerate   bool
)

func init() {
	generateCmd.Flags().StringP("output", "o", "migrations", "Directory the migration files are written to")
	generateCmd.Flags().StringP("format", "f", "ts", "Migration module format (ts, js)")
	generateCmd.Flags().Bool("clean", false, "Empty the output directory before writing")
	generateCmd.Flags().Bool("composite-fks", false, "Emit foreign keys spanning several columns")
	generateCmd.Flags().StringVar(&generateSnapshot, "snapshot", "", "Read tables from a snapshot file instead of the database")
	generateCmd.Flags().BoolVar(&dryRunGenerate, "dry-run", false, "Print the migrations without writing files")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one knex migration per table",
	Long: `Generate knex migrations that recreate the selected tables.

Each table becomes <timestamp>_create_<schema>_<table>.ts (or .js). Tables
referenced by foreign keys get earlier timestamps, so knex creates them
first.

Examples:
  knexgen generate                          # All tables of public into ./migrations
  knexgen generate -s public,audit --clean  # Two schemas, empty the folder first
  knexgen generate -t users,orders -f js    # Two tables as CommonJS modules
  knexgen generate --snapshot catalog.yaml  # Offline, from a snapshot
  knexgen generate --dry-run                # Preview without writing
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return generateMigrations(ctx, cmd.OutOrStdout())
	},
}

func generateMigrations(ctx context.Context, out io.Writer) error {
	catalog, release, err := openCatalog(ctx, generateSnapshot)
	if err != nil {
		return err
	}
	defer release()

	var sink runner.Sink
	if !dryRunGenerate {
		w := writer.New(cfg.OutputDir)
		if err := w.Prepare(cfg.Clean); err != nil {
			return err
		}
		sink = w
	}

	report, err := runner.Run(ctx, catalog, sink, runnerOptions())
	if err != nil {
		return err
	}

	if dryRunGenerate {
		printPreview(out, report)
	}
	printReport(out, report)

	if report.Failed() {
		return fmt.Errorf("%d table(s) failed", report.Count(runner.StatusFailed))
	}
	return nil
}

func printPreview(out io.Writer, report *runner.Report) {
	fmt.Fprintln(out, "\n================ DRY RUN: Migration Preview ================")
	for _, res := range report.Results {
		if res.Document == nil {
			continue
		}
		fmt.Fprintf(out, "\n-- %s --\n", res.QualifiedName())
		fmt.Fprint(out, res.Document.Text())
	}
	fmt.Fprintln(out, "============================================================")
	fmt.Fprintln(out, "(Dry run only. No files were written.)")
}

func printReport(out io.Writer, report *runner.Report) {
	if len(report.Results) == 0 {
		fmt.Fprintln(out, "ℹ️  No tables matched.")
		return
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, res := range report.Results {
		switch res.Status {
		case runner.StatusSuccess:
			if res.Path != "" {
				green.Fprintf(out, "✅ %s → %s\n", res.QualifiedName(), res.Path)
			} else {
				green.Fprintf(out, "✅ %s\n", res.QualifiedName())
			}
		case runner.StatusPartial:
			name := res.QualifiedName()
			if res.Path != "" {
				name += " → " + res.Path
			}
			yellow.Fprintf(out, "⚠️  %s (generated without %d constraint(s))\n", name, len(res.Gaps))
			for _, g := range res.Gaps {
				fmt.Fprintf(out, "   - %s: %s\n", g.Constraint, g.Reason)
			}
		default:
			red.Fprintf(out, "❌ %s: %v\n", res.QualifiedName(), res.Err)
		}
	}

	fmt.Fprintf(out, "\n📊 %d generated, %d partial, %d failed in %s\n",
		report.Count(runner.StatusSuccess),
		report.Count(runner.StatusPartial),
		report.Count(runner.StatusFailed),
		report.Duration.Round(time.Millisecond))
}
