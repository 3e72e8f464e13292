package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"permit-sync/core/dataset"
	"permit-sync/core/utils"

	"gorm.io/gorm"
)

// Client is the thin database contract the pipeline depends on:
// execute statements, fetch result sets, and read table schemas.
type Client struct {
	db *gorm.DB
}

// NewClient wraps an open gorm connection.
func NewClient(db *gorm.DB) *Client {
	return &Client{db: db}
}

// Open connects using cfg and wraps the connection in a Client.
func Open(cfg Config) (*Client, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(db), nil
}

// DB returns the underlying gorm connection.
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Dialect returns the dialect name (postgres, mysql, sqlite).
func (c *Client) Dialect() string {
	return c.db.Dialector.Name()
}

// Quote quotes an identifier for this client's dialect.
func (c *Client) Quote(name string) string {
	return QuoteIdentifier(c.Dialect(), name)
}

// Execute runs a statement that returns no rows.
func (c *Client) Execute(ctx context.Context, statement string, args ...any) error {
	if err := c.db.WithContext(ctx).Exec(statement, args...).Error; err != nil {
		return fmt.Errorf("%w: %s: %w", ErrQuery, statement, err)
	}
	return nil
}

// Fetch runs a query and returns its result set as a Dataset.
func (c *Client) Fetch(ctx context.Context, query string, args ...any) (*dataset.Dataset, error) {
	rows, err := c.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, query, err)
	}
	defer rows.Close()

	ds, err := scanDataset(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQuery, query, err)
	}
	return ds, nil
}

// GetTableSchema returns the table's columns in ordinal order.
// It fails with ErrSchemaNotFound if the table does not exist.
func (c *Client) GetTableSchema(ctx context.Context, table string) (TableSchema, error) {
	columns, err := GetTableColumns(c.db.WithContext(ctx), table)
	if err != nil {
		return TableSchema{}, err
	}
	if len(columns) == 0 {
		return TableSchema{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, table)
	}
	return TableSchema{Table: table, Columns: columns}, nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func scanDataset(rows *sql.Rows) (*dataset.Dataset, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	header := make([]string, len(types))
	for i, ct := range types {
		header[i] = ct.Name()
	}

	var records [][]dataset.Value
	raw := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make([]dataset.Value, len(types))
		for i, v := range raw {
			record[i] = toValue(v, types[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dataset.FromRows(header, records)
}

// toValue converts a scanned driver value using the column's database type.
// Text-protocol drivers return numbers as []byte, so the type name decides.
func toValue(v any, dbType string) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Null()
	case bool:
		if t {
			return dataset.Int(1)
		}
		return dataset.Int(0)
	case time.Time:
		return dataset.Text(utils.ToString(t))
	case float32, float64:
		f, _ := utils.ToFloat64(t)
		return dataset.Float(f)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		i, _ := utils.ToInt64(t)
		return dataset.Int(i)
	}

	typeName := strings.ToUpper(dbType)
	switch {
	case strings.Contains(typeName, "BOOL"):
		if utils.ToBool(v) {
			return dataset.Int(1)
		}
		return dataset.Int(0)
	case strings.Contains(typeName, "INT"):
		if i, ok := utils.ToInt64(v); ok {
			return dataset.Int(i)
		}
	case strings.Contains(typeName, "FLOAT"), strings.Contains(typeName, "DOUBLE"),
		strings.Contains(typeName, "DECIMAL"), strings.Contains(typeName, "NUMERIC"),
		strings.Contains(typeName, "REAL"):
		if f, ok := utils.ToFloat64(v); ok {
			return dataset.Float(f)
		}
	}
	return dataset.Text(utils.ToString(v))
}
