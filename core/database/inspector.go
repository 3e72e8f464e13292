package database

import (
	"errors"
	"fmt"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// mysqlNoSuchTable is ER_NO_SUCH_TABLE.
const mysqlNoSuchTable = 1146

// ColumnInfo describes one column of a remote table.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema is the ordered column list of a remote table.
type TableSchema struct {
	Table   string       `json:"table"`
	Columns []ColumnInfo `json:"columns"`
}

// Names returns the column names in table order.
func (s TableSchema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// WithColumns returns a copy of the schema with extra columns appended.
func (s TableSchema) WithColumns(extra ...ColumnInfo) TableSchema {
	columns := make([]ColumnInfo, 0, len(s.Columns)+len(extra))
	columns = append(columns, s.Columns...)
	columns = append(columns, extra...)
	return TableSchema{Table: s.Table, Columns: columns}
}

// GetTableColumns retrieves the column definitions for a given table, in ordinal order.
// A missing table yields an empty slice for postgres and sqlite, and ErrSchemaNotFound for mysql.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	switch db.Dialector.Name() {
	case DriverSQLite:
		// SQLite uses PRAGMA table_info
		type sqliteColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var cols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdentifier(DriverSQLite, tableName))).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("%w: failed to get columns for table %s: %w", ErrQuery, tableName, err)
		}
		columns := make([]ColumnInfo, 0, len(cols))
		for _, col := range cols {
			columns = append(columns, ColumnInfo{
				Name:     col.Name,
				Type:     strings.ToLower(col.Type),
				Nullable: col.Notnull == 0 && col.Pk == 0,
			})
		}
		return columns, nil

	case DriverMySQL:
		// Matches the output of SHOW COLUMNS
		type mysqlColumn struct {
			Field   string
			Type    string
			Null    string
			Key     string
			Default *string
			Extra   string
		}
		var cols []mysqlColumn
		err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM %s", QuoteIdentifier(DriverMySQL, tableName))).Scan(&cols).Error
		if err != nil {
			var myErr *gomysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == mysqlNoSuchTable {
				return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, tableName)
			}
			return nil, fmt.Errorf("%w: failed to get columns for table %s: %w", ErrQuery, tableName, err)
		}
		columns := make([]ColumnInfo, 0, len(cols))
		for _, col := range cols {
			columns = append(columns, ColumnInfo{
				Name:     col.Field,
				Type:     strings.ToLower(col.Type),
				Nullable: strings.EqualFold(col.Null, "YES"),
			})
		}
		return columns, nil

	default:
		// PostgreSQL and anything else speaking information_schema
		schema, table := splitQualified(tableName)
		type pgColumn struct {
			ColumnName string
			DataType   string
			IsNullable string
		}
		var cols []pgColumn
		query := `SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_schema = COALESCE(NULLIF(?, ''), current_schema()) AND table_name = ?
			ORDER BY ordinal_position`
		if err := db.Raw(query, schema, table).Scan(&cols).Error; err != nil {
			return nil, fmt.Errorf("%w: failed to get columns for table %s: %w", ErrQuery, tableName, err)
		}
		columns := make([]ColumnInfo, 0, len(cols))
		for _, col := range cols {
			columns = append(columns, ColumnInfo{
				Name:     col.ColumnName,
				Type:     strings.ToLower(col.DataType),
				Nullable: strings.EqualFold(col.IsNullable, "YES"),
			})
		}
		return columns, nil
	}
}

// splitQualified splits "schema.table" into its parts; schema is empty when absent.
func splitQualified(name string) (schema, table string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
