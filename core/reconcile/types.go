package reconcile

import (
	"fmt"
	"time"
)

// LocalColumnPolicy decides what happens to dataset columns missing from the table.
type LocalColumnPolicy string

const (
	// PolicyAppend keeps local-only columns after the table-ordered ones.
	PolicyAppend LocalColumnPolicy = "append"
	// PolicyDrop leaves local-only columns out of the reordered sequence.
	PolicyDrop LocalColumnPolicy = "drop"
)

// ParsePolicy converts a config string into a LocalColumnPolicy.
// An empty string selects PolicyAppend.
func ParsePolicy(s string) (LocalColumnPolicy, error) {
	switch LocalColumnPolicy(s) {
	case "", PolicyAppend:
		return PolicyAppend, nil
	case PolicyDrop:
		return PolicyDrop, nil
	default:
		return "", fmt.Errorf("unknown local column policy %q (expected %q or %q)", s, PolicyAppend, PolicyDrop)
	}
}

// Config holds target-table settings.
type Config struct {
	// Table is the remote table to reconcile against.
	Table string `mapstructure:"table" default:"permits_raw"`
	// LocalColumns is the LocalColumnPolicy for dataset-only columns.
	LocalColumns string `mapstructure:"local_columns" default:"append"`
	// BatchSize is the row batch size for insert-based bulk loads.
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// PlanCacheSeconds is how long the HTTP surface reuses a computed plan.
	PlanCacheSeconds int `mapstructure:"plan_cache_seconds" default:"30"`
}

// PlanCacheTTL returns PlanCacheSeconds as a duration.
func (c Config) PlanCacheTTL() time.Duration {
	return time.Duration(c.PlanCacheSeconds) * time.Second
}

// AlignmentPlan is the column-level difference between a dataset and a table.
type AlignmentPlan struct {
	// MissingInTable lists dataset columns absent from the table, in dataset order.
	MissingInTable []string `json:"missing_in_table"`

	// MissingInDataset lists table columns absent from the dataset, in table order.
	MissingInDataset []string `json:"missing_in_dataset"`

	// ReorderedColumns is the column order the dataset should adopt.
	ReorderedColumns []string `json:"reordered_columns"`
}

// InOrder reports whether the dataset already follows ReorderedColumns.
func (p *AlignmentPlan) InOrder(datasetColumns []string) bool {
	if len(datasetColumns) != len(p.ReorderedColumns) {
		return false
	}
	for i, name := range datasetColumns {
		if p.ReorderedColumns[i] != name {
			return false
		}
	}
	return true
}

// ActionType represents the type of pipeline action.
type ActionType string

const (
	// ActionAddColumns adds MissingInTable columns to the remote table.
	ActionAddColumns ActionType = "add_columns"
	// ActionReorder reorders the local dataset to ReorderedColumns.
	ActionReorder ActionType = "reorder"
	// ActionBulkLoad copies the local rows into the remote table.
	ActionBulkLoad ActionType = "bulk_load"
)

// Action represents a planned pipeline step.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Table is the remote table the action targets.
	Table string `json:"table"`

	// Columns lists the columns involved (added columns, or the new order).
	Columns []string `json:"columns,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// SyncPlan contains the alignment and the actions derived from it.
type SyncPlan struct {
	// Table is the remote table.
	Table string `json:"table"`

	// Alignment is the computed column difference.
	Alignment *AlignmentPlan `json:"alignment"`

	// Actions lists the steps to execute, in pipeline order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	DatasetColumns   int  `json:"dataset_columns"`
	TableColumns     int  `json:"table_columns"`
	SharedColumns    int  `json:"shared_columns"`
	MissingInTable   int  `json:"missing_in_table"`
	MissingInDataset int  `json:"missing_in_dataset"`
	NeedsReorder     bool `json:"needs_reorder"`
	TotalActions     int  `json:"total_actions"`
}

// ReconcileOptions controls which actions are planned and whether they run.
type ReconcileOptions struct {
	// AddColumns plans ALTER TABLE for columns missing in the table.
	AddColumns bool `json:"add_columns"`

	// Reorder plans reordering of the local dataset.
	Reorder bool `json:"reorder"`

	// Load plans a bulk load of the local rows.
	Load bool `json:"load"`

	// DryRun prevents execution of any mutations if true.
	DryRun bool `json:"dry_run"`

	// Confirmed indicates the operator confirmed the mutations.
	// If false, nothing executes regardless of DryRun.
	Confirmed bool `json:"confirmed"`
}
