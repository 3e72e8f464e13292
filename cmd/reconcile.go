package cmd

import (
	"context"
	"fmt"

	"permit-sync/core/reconcile"
	"permit-sync/feature/tablesync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addColumns bool
	reorder    bool
	loadRows   bool
	dryRun     bool
)

// reconcileCmd aligns the source export with the target table.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile the source export with the target table (report + optionally apply)",
	Long: `Compare the columns of SOURCE_DATA_URL with TARGET_TABLE and report
the columns missing on either side and the order the export should follow.

Optionally add the missing columns to the table, reorder the export to the
table order (saved to SOURCE_OUTPUT_PATH when set) and bulk-load the rows.

Examples:
  # Report only
  reconcile

  # Show the schema the table would have, without changing anything
  reconcile --add-columns --dry-run

  # Full pipeline with interactive confirmation
  reconcile --add-columns --reorder --load

  # Full pipeline, non-interactive, JSON report on stdout
  reconcile --add-columns --reorder --load --yes --json`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&addColumns, "add-columns", false, "Add dataset columns missing from the table")
	reconcileCmd.Flags().BoolVar(&reorder, "reorder", false, "Reorder the dataset to the table column order")
	reconcileCmd.Flags().BoolVar(&loadRows, "load", false, "Bulk-load the dataset into the table")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	l := a.log.With(zap.String("table", a.service.Table()))

	opts := reconcile.ReconcileOptions{
		AddColumns: addColumns,
		Reorder:    reorder,
		Load:       loadRows,
		DryRun:     true,
	}

	// Step 1: Plan (always runs, never mutates)
	l.Info("Planning reconciliation...")
	report, err := a.service.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report
	printRunReport(l, report)

	// Step 3: Check if actions are requested
	if !addColumns && !reorder && !loadRows {
		l.Info("No actions requested. Use --add-columns, --reorder or --load.")
		return emitJSON(report)
	}

	if dryRun || len(report.Plan.Actions) == 0 {
		if len(report.Plan.Actions) == 0 {
			l.Info("No actions required based on current flags.")
		} else {
			l.Info("Dry-run mode: No changes were made.")
		}
		return emitJSON(report)
	}

	// Step 4: Apply (if confirmed)
	prompt := "This will modify the target table."
	if loadRows {
		// Bulk loads append; a second run duplicates the rows.
		l.Warn("Bulk load appends rows and is not idempotent; do not rerun a successful load")
		prompt = "This will modify the target table and append rows."
	}
	if !confirm(prompt) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts.DryRun = false
	opts.Confirmed = true

	l.Info("Applying actions...")
	report, err = a.service.Run(ctx, opts)
	if err != nil {
		if report != nil && report.Result != nil {
			l.Error("Pipeline stopped",
				zap.Int("completed_actions", report.Result.Executed),
				zap.Strings("added_columns", report.Result.AddedColumns))
		}
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed actions",
		zap.Int("count", report.Result.Executed),
		zap.Strings("added_columns", report.Result.AddedColumns),
		zap.Int64("rows_loaded", report.Result.RowsLoaded))
	if report.OutputPath != "" {
		l.Info("Reordered dataset saved", zap.String("path", report.OutputPath))
	}
	return emitJSON(report)
}

func emitJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	return printJSON(v)
}

// printRunReport prints a formatted reconciliation report using logger.
func printRunReport(l *zap.Logger, report *tablesync.RunReport) {
	s := report.Plan.Summary
	alignment := report.Plan.Alignment

	l.Info("Reconciliation report",
		zap.Int("dataset_columns", s.DatasetColumns),
		zap.Int("table_columns", s.TableColumns),
		zap.Int("shared_columns", s.SharedColumns),
		zap.Strings("missing_in_table", alignment.MissingInTable),
		zap.Strings("missing_in_dataset", alignment.MissingInDataset),
		zap.Bool("needs_reorder", s.NeedsReorder),
	)
	if s.NeedsReorder {
		l.Info("Table column order", zap.Strings("columns", alignment.ReorderedColumns))
	}

	for _, action := range report.Plan.Actions {
		l.Info("Planned action",
			zap.String("type", string(action.Type)),
			zap.Strings("columns", action.Columns),
			zap.String("reason", action.Reason),
		)
	}

	if report.DryRun && len(report.Schema.Columns) > 0 && addColumns {
		l.Info("Prospective table schema", zap.Strings("columns", report.Schema.Names()))
	}
}
