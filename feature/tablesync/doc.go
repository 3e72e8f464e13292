// Package tablesync keeps a permit table in step with the CSV export that feeds it.
//
// A run stages the export (local file, http(s) or s3://), loads it, reads the
// target table's columns, and reconciles the two into an AlignmentPlan. The
// plan's actions are then applied in order:
//
//  1. add_columns: ALTER TABLE ... ADD COLUMN for dataset columns the table lacks,
//     typed from the dataset's values.
//  2. reorder: rearrange the dataset to the table order and save it.
//  3. bulk_load: copy the rows into the table as a single unit.
//
// Nothing is executed unless the run is confirmed and not a dry run. A dry run
// still reports the schema the table would have after step 1.
//
// # Bulk loading
//
// Postgres uses pgx CopyFrom on a raw connection. MySQL uses LOAD DATA LOCAL
// INFILE fed by a registered reader handler. Other dialects insert in batches
// inside one transaction. Loads are not idempotent; rerunning one appends the
// rows again.
//
// # HTTP
//
//	GET  /health
//	GET  /sync/plan?add_columns=true&reorder=true&load=false
//	GET  /sync/schema?table=
//	GET  /sync/preview?limit=10
//	POST /sync/apply   {"add_columns":true,"reorder":true,"load":true,"confirmed":true}
package tablesync
