package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ridoystarlord/knexgen/runner"
	"github.com/ridoystarlord/knexgen/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the selected tables for anything generation would reject or degrade",
	Long: `Validate table descriptors before generating migrations.

This command reports:
- Columns or constraints generation would reject (errors)
- Constraints left out of the migration, such as CHECK or composite foreign keys
- Types without a knex builder, defaults that lose quoting or keep a cast
- Foreign keys to tables outside the selected set

Examples:
  knexgen validate                          # Tables of the configured schemas
  knexgen validate --snapshot catalog.yaml  # Offline
  knexgen validate --format json            # Machine readable output
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateTables(cmd)
	},
}

var (
	validateSnapshot string
	validateFormat   string

	errValidationFailed = errors.New("validation failed")
)

func init() {
	validateCmd.Flags().StringVar(&validateSnapshot, "snapshot", "", "Read tables from a snapshot file instead of the database")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
	validateCmd.Flags().Bool("composite-fks", false, "Treat multi-column foreign keys as supported")
}

func validateTables(cmd *cobra.Command) error {
	if validateFormat != "text" && validateFormat != "json" {
		return fmt.Errorf("unknown output format %q (must be text or json)", validateFormat)
	}

	ctx := cmd.Context()
	catalog, release, err := openCatalog(ctx, validateSnapshot)
	if err != nil {
		return err
	}
	defer release()

	collected, err := runner.Collect(ctx, catalog, runnerOptions())
	if err != nil {
		return err
	}

	result := validator.NewSchemaValidator(cfg.Options()).ValidateTables(collected)

	out := cmd.OutOrStdout()
	if validateFormat == "json" {
		err = outputJSON(out, result)
	} else {
		err = outputText(out, result)
	}
	if err != nil {
		return err
	}
	if !result.Valid {
		return errValidationFailed
	}
	return nil
}

func outputJSON(out io.Writer, result *validator.ValidationResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(out io.Writer, result *validator.ValidationResult) error {
	if result.Valid {
		color.New(color.FgGreen).Fprintln(out, "✅ Schema validation passed!")
	} else {
		color.New(color.FgRed).Fprintln(out, "❌ Schema validation failed!")
	}

	printFindings(out, "🔴 Errors", result.Errors)
	printFindings(out, "🟡 Warnings", result.Warnings)
	printFindings(out, "🔵 Info", result.Info)

	fmt.Fprintf(out, "\n📊 Summary:\n")
	fmt.Fprintf(out, "  • Errors: %d\n", len(result.Errors))
	fmt.Fprintf(out, "  • Warnings: %d\n", len(result.Warnings))
	fmt.Fprintf(out, "  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Fprintf(out, "\n🎉 Your tables are ready for migration generation!\n")
	} else {
		fmt.Fprintf(out, "\n💡 Fix the errors above before generating migrations.\n")
	}
	return nil
}

func printFindings(out io.Writer, title string, findings []validator.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s (%d):\n", title, len(findings))
	for i, f := range findings {
		fmt.Fprintf(out, "  %d. ", i+1)
		if f.Table != "" {
			fmt.Fprintf(out, "[%s]", f.Table)
		}
		if f.Column != "" {
			fmt.Fprintf(out, ".%s", f.Column)
		}
		if f.Constraint != "" {
			fmt.Fprintf(out, " (constraint: %s)", f.Constraint)
		}
		fmt.Fprintf(out, ": %s\n", f.Message)
	}
}
