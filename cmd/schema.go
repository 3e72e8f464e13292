package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// schemaCmd prints the columns of a table.
var schemaCmd = &cobra.Command{
	Use:   "schema [table]",
	Short: "Show the columns of the target table (or the given table)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		table := ""
		if len(args) == 1 {
			table = args[0]
		}

		schema, err := a.service.Schema(context.Background(), table)
		if err != nil {
			return fmt.Errorf("failed to read schema: %w", err)
		}
		if jsonOutput {
			return printJSON(schema)
		}

		a.log.Info("Table schema", zap.String("table", schema.Table), zap.Int("columns", len(schema.Columns)))
		for i, col := range schema.Columns {
			a.log.Info("Column",
				zap.Int("position", i+1),
				zap.String("name", col.Name),
				zap.String("type", col.Type),
				zap.Bool("nullable", col.Nullable))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)
}
