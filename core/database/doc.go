// Package database handles database connections, schema inspection and the
// small client contract the sync pipeline is written against.
//
// It wraps GORM to configure PostgreSQL, MySQL or SQLite connections from the
// application's configuration.
//
// # Connect
//
// Connect opens a connection for the configured driver, applies pool settings and
// verifies it with a bounded ping. Any failure wraps ErrConnection.
//
// # Client
//
// Client exposes Execute, Fetch and GetTableSchema. Fetch converts result sets into
// dataset.Dataset values so query previews and local data share one model.
//
// # Schema Inspection
//
// GetTableColumns reads column definitions in ordinal order using the dialect's
// catalog (information_schema, SHOW COLUMNS, PRAGMA table_info). GetTableSchema
// turns an unknown table into ErrSchemaNotFound.
//
// # Usage
//
//	client, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	schema, err := client.GetTableSchema(ctx, "permits_raw")
package database
