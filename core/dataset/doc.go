// Package dataset defines the in-memory tabular model used across the pipeline.
//
// A Dataset is an ordered collection of named, equal-length columns. Each column
// holds typed scalar values (null, integer, float or text). Invariants are checked
// once, at construction time, so every other package can rely on them.
//
// # Invariants
//
//   - Column names are unique and non-empty.
//   - All columns have the same number of values.
//
// # Ordering
//
// Reorder returns a new Dataset with the requested column order. ReorderInPlace
// mutates the receiver instead. Both fail with ErrColumnNotFound when a requested
// column does not exist, leaving the receiver untouched.
//
// # Usage
//
//	ds, err := dataset.New(
//	    dataset.Column{Name: "id", Values: []dataset.Value{dataset.Int(1)}},
//	    dataset.Column{Name: "addr", Values: []dataset.Value{dataset.Text("1 Main St")}},
//	)
//	reordered, err := ds.Reorder([]string{"addr", "id"})
package dataset
