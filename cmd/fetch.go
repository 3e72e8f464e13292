package cmd

import (
	"context"
	"fmt"
	"os"

	"permit-sync/core/tabular"
	"permit-sync/feature/tablesync"

	"github.com/spf13/cobra"
)

var fetchLimit int

// fetchCmd prints the first rows of the target table.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print the first rows of the target table as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ds, err := a.service.Preview(context.Background(), fetchLimit)
		if err != nil {
			return fmt.Errorf("failed to fetch rows: %w", err)
		}
		if jsonOutput {
			return printJSON(tablesync.NewDatasetView(ds))
		}
		return tabular.WriteTo(os.Stdout, ds, tabular.Options{Delimiter: ','})
	},
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 10, "Maximum number of rows")
	RootCmd.AddCommand(fetchCmd)
}
