// Package reconcile compares a local dataset's columns with a remote table's schema
// and turns the difference into an executable plan.
//
// # Architecture
//
// The package has three layers:
//
// 1. Engine: Reconcile computes an AlignmentPlan from two ordered lists of column
// names. It is a pure function with no I/O. ApplyOrder applies the computed order
// to a dataset.
//
// 2. Plan: BuildPlan turns an AlignmentPlan into ordered Actions (add columns,
// reorder, bulk load) based on ReconcileOptions. ApplyPlan executes those actions
// through a Mutator, which the feature layer implements against a real database.
//
// 3. Cache: PlanCache memoizes plans for a TTL with stampede protection, for
// callers that ask for the same plan repeatedly (the HTTP surface).
//
// # Local-only columns
//
// Columns that exist in the dataset but not in the table are appended after the
// table-ordered columns, preserving their relative order (PolicyAppend). With
// PolicyDrop they are left out of ReorderedColumns.
//
// # Usage Example
//
//	alignment, err := reconcile.Reconcile(ds.Names(), schema.Names(), reconcile.PolicyAppend)
//	plan := reconcile.BuildPlan("permits_raw", alignment, opts)
//	executed, err := reconcile.ApplyPlan(ctx, plan, mutator, opts)
package reconcile
