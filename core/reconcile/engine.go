package reconcile

import (
	"errors"
	"fmt"

	"permit-sync/core/dataset"
)

// ErrInvalidSchema is returned when a column list contains duplicate or empty names.
var ErrInvalidSchema = errors.New("invalid schema")

// Side identifies which input of Reconcile was invalid.
type Side string

const (
	SideDataset Side = "dataset"
	SideTable   Side = "table"
)

// InvalidSchemaError describes a rejected column list.
type InvalidSchemaError struct {
	Side   Side
	Column string
	Reason string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid %s schema: column %q %s", e.Side, e.Column, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidSchema) match.
func (e *InvalidSchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// Reconcile computes the alignment between a dataset's columns and a table's columns.
// Both inputs are ordered and must not contain duplicates.
func Reconcile(datasetColumns, tableColumns []string, policy LocalColumnPolicy) (*AlignmentPlan, error) {
	local, err := indexNames(datasetColumns, SideDataset)
	if err != nil {
		return nil, err
	}
	remote, err := indexNames(tableColumns, SideTable)
	if err != nil {
		return nil, err
	}

	plan := &AlignmentPlan{
		MissingInTable:   []string{},
		MissingInDataset: []string{},
		ReorderedColumns: make([]string, 0, len(datasetColumns)),
	}

	for _, name := range tableColumns {
		if _, ok := local[name]; ok {
			plan.ReorderedColumns = append(plan.ReorderedColumns, name)
		} else {
			plan.MissingInDataset = append(plan.MissingInDataset, name)
		}
	}

	for _, name := range datasetColumns {
		if _, ok := remote[name]; ok {
			continue
		}
		plan.MissingInTable = append(plan.MissingInTable, name)
		if policy != PolicyDrop {
			plan.ReorderedColumns = append(plan.ReorderedColumns, name)
		}
	}

	return plan, nil
}

// ApplyOrder arranges the dataset's columns to follow columns.
// With inPlace the given dataset is mutated and returned; otherwise a new one is built.
// Unknown names fail with dataset.ErrColumnNotFound and leave ds untouched.
func ApplyOrder(ds *dataset.Dataset, columns []string, inPlace bool) (*dataset.Dataset, error) {
	if inPlace {
		if err := ds.ReorderInPlace(columns); err != nil {
			return nil, fmt.Errorf("apply column order: %w", err)
		}
		return ds, nil
	}
	out, err := ds.Reorder(columns)
	if err != nil {
		return nil, fmt.Errorf("apply column order: %w", err)
	}
	return out, nil
}

func indexNames(names []string, side Side) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return nil, &InvalidSchemaError{Side: side, Column: name, Reason: "is empty"}
		}
		if _, dup := set[name]; dup {
			return nil, &InvalidSchemaError{Side: side, Column: name, Reason: "is duplicated"}
		}
		set[name] = struct{}{}
	}
	return set, nil
}
