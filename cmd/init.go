package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ridoystarlord/knexgen/config"
	"github.com/ridoystarlord/knexgen/logger"
	"github.com/spf13/cobra"
)

var (
	initFile  string
	initForce bool
)

func init() {
	initCmd.Flags().StringVarP(&initFile, "file", "f", config.DefaultFile, "Config file to create")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a knexgen.yaml config file",
	Long: `Create a commented knexgen.yaml with the default settings.

Settings in the file are overridden by environment variables (DATABASE_URL,
DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_DATABASE, KNEXGEN_*), which .env
may provide, and by command line flags.

Examples:
  knexgen init
  knexgen init -f config/knexgen.yaml --force
`,
	// init must work even when an existing config is broken
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(initFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initFile)
		}
		if err := os.WriteFile(initFile, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", initFile, err)
		}
		logger.Debug("wrote %d bytes to %s", len(config.Template), initFile)

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✅ Created %s\n", initFile)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Set the connection in the file, .env or DATABASE_URL")
		fmt.Fprintln(out, "  2. knexgen health")
		fmt.Fprintln(out, "  3. knexgen generate")
		return nil
	},
}
