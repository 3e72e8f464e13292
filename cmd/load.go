package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadCmd bulk-loads a file into the target table without reconciling.
var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Bulk-load a CSV file (path, http(s) or s3:// URL) into the target table",
	Long: `Bulk-load a CSV file into TARGET_TABLE as is. The file header names the
target columns. The load is all-or-nothing but not idempotent: running it twice
appends the rows twice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]

		a, err := newApp(source)
		if err != nil {
			return err
		}
		defer a.Close()
		l := a.log.With(zap.String("table", a.service.Table()), zap.String("source", source))

		l.Warn("Bulk load appends rows and is not idempotent; do not rerun a successful load")
		if !confirm("This will append rows to the target table.") {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		rows, err := a.service.Load(context.Background(), source)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", source, err)
		}
		l.Info("Load complete", zap.Int64("rows", rows))
		return emitJSON(map[string]any{"table": a.service.Table(), "source": source, "rows": rows})
	},
}

func init() {
	loadCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")
	RootCmd.AddCommand(loadCmd)
}
