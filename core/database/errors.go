package database

import "errors"

var (
	// ErrConnection is returned when the database cannot be reached or opened.
	ErrConnection = errors.New("database connection failed")
	// ErrQuery is returned when a statement or query fails.
	ErrQuery = errors.New("database query failed")
	// ErrSchemaNotFound is returned when the requested table does not exist.
	ErrSchemaNotFound = errors.New("table schema not found")
)
