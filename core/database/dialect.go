package database

import (
	"strings"

	"permit-sync/core/dataset"

	"github.com/jackc/pgx/v5"
)

// QuoteIdentifier quotes a possibly schema-qualified identifier for the dialect.
func QuoteIdentifier(dialect, name string) string {
	parts := strings.Split(name, ".")
	if dialect == DriverMySQL {
		for i, p := range parts {
			parts[i] = QuoteName(dialect, p)
		}
		return strings.Join(parts, ".")
	}
	// Postgres and SQLite share the standard double-quote rules
	return pgx.Identifier(parts).Sanitize()
}

// QuoteName quotes a single identifier, such as a column name, without
// treating dots as qualifiers.
func QuoteName(dialect, name string) string {
	if dialect == DriverMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return pgx.Identifier{name}.Sanitize()
}

// SQLType maps a dataset kind to a column type for the dialect.
// Columns with no non-null values are created as text.
func SQLType(dialect string, kind dataset.Kind) string {
	switch dialect {
	case DriverMySQL:
		switch kind {
		case dataset.KindInt:
			return "BIGINT"
		case dataset.KindFloat:
			return "DOUBLE"
		default:
			return "TEXT"
		}
	case DriverSQLite:
		switch kind {
		case dataset.KindInt:
			return "INTEGER"
		case dataset.KindFloat:
			return "REAL"
		default:
			return "TEXT"
		}
	default:
		switch kind {
		case dataset.KindInt:
			return "BIGINT"
		case dataset.KindFloat:
			return "DOUBLE PRECISION"
		default:
			return "TEXT"
		}
	}
}
