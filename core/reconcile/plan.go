package reconcile

import (
	"context"
	"fmt"
)

// Mutator applies plan actions against real resources.
// The feature layer implements it on top of the database client and the loaded dataset.
type Mutator interface {
	// AddColumns adds the given columns to the remote table.
	AddColumns(ctx context.Context, table string, columns []string) error
	// Reorder rearranges the local dataset to the given column order.
	Reorder(ctx context.Context, columns []string) error
	// BulkLoad copies the local rows into the remote table and returns the row count.
	BulkLoad(ctx context.Context, table string) (int64, error)
}

// ApplyResult reports what ApplyPlan did.
type ApplyResult struct {
	// Executed is the number of actions that completed.
	Executed int `json:"executed"`
	// AddedColumns lists columns added to the remote table.
	AddedColumns []string `json:"added_columns"`
	// RowsLoaded is the number of rows bulk-loaded.
	RowsLoaded int64 `json:"rows_loaded"`
}

// BuildPlan turns an alignment into ordered actions.
// It does NOT execute anything; use ApplyPlan for that.
func BuildPlan(table string, datasetColumns []string, alignment *AlignmentPlan, opts ReconcileOptions) *SyncPlan {
	plan := &SyncPlan{
		Table:     table,
		Alignment: alignment,
		Actions:   []Action{},
	}

	shared := len(datasetColumns) - len(alignment.MissingInTable)
	needsReorder := !alignment.InOrder(datasetColumns)
	plan.Summary = PlanSummary{
		DatasetColumns:   len(datasetColumns),
		TableColumns:     shared + len(alignment.MissingInDataset),
		SharedColumns:    shared,
		MissingInTable:   len(alignment.MissingInTable),
		MissingInDataset: len(alignment.MissingInDataset),
		NeedsReorder:     needsReorder,
	}

	if opts.AddColumns && len(alignment.MissingInTable) > 0 {
		plan.Actions = append(plan.Actions, Action{
			Type:    ActionAddColumns,
			Table:   table,
			Columns: alignment.MissingInTable,
			Reason:  fmt.Sprintf("%d dataset column(s) missing in table", len(alignment.MissingInTable)),
		})
	}

	if opts.Reorder && needsReorder {
		plan.Actions = append(plan.Actions, Action{
			Type:    ActionReorder,
			Table:   table,
			Columns: alignment.ReorderedColumns,
			Reason:  "dataset column order differs from table order",
		})
	}

	if opts.Load {
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionBulkLoad,
			Table:  table,
			Reason: "bulk load requested",
		})
	}

	plan.Summary.TotalActions = len(plan.Actions)
	return plan
}

// ApplyPlan executes the actions in a plan, in order, stopping at the first failure.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, plan *SyncPlan, mutator Mutator, opts ReconcileOptions) (*ApplyResult, error) {
	result := &ApplyResult{AddedColumns: []string{}}

	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return result, nil
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch action.Type {
		case ActionAddColumns:
			if err := mutator.AddColumns(ctx, action.Table, action.Columns); err != nil {
				return result, fmt.Errorf("failed to add columns to %s: %w", action.Table, err)
			}
			result.AddedColumns = append(result.AddedColumns, action.Columns...)
		case ActionReorder:
			if err := mutator.Reorder(ctx, action.Columns); err != nil {
				return result, fmt.Errorf("failed to reorder dataset: %w", err)
			}
		case ActionBulkLoad:
			rows, err := mutator.BulkLoad(ctx, action.Table)
			if err != nil {
				return result, fmt.Errorf("failed to bulk load %s: %w", action.Table, err)
			}
			result.RowsLoaded = rows
		default:
			return result, fmt.Errorf("unknown action type %q", action.Type)
		}
		result.Executed++
	}

	return result, nil
}
