package tablesync

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"permit-sync/core/database"
	"permit-sync/core/dataset"
	"permit-sync/core/tabular"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

// Executor applies schema and data changes to the target table.
type Executor struct {
	client *database.Client
	logger *zap.Logger
}

// NewExecutor creates an executor on top of a database client.
func NewExecutor(client *database.Client, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{client: client, logger: logger}
}

// AddMissingColumns adds each missing column with one ALTER TABLE statement.
// With dryRun no statement is executed and the prospective schema is returned.
// Columns added before a failure stay added; the returned schema includes them.
func (e *Executor) AddMissingColumns(ctx context.Context, schema database.TableSchema, missing []string, typeOf TypeResolver, dryRun bool) (database.TableSchema, error) {
	dialect := e.client.Dialect()
	added := make([]database.ColumnInfo, 0, len(missing))

	for _, column := range missing {
		sqlType := database.SQLType(dialect, dataset.KindText)
		if typeOf != nil {
			sqlType = typeOf(column)
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			database.QuoteIdentifier(dialect, schema.Table), database.QuoteName(dialect, column), sqlType)

		if dryRun {
			e.logger.Info("Dry run: would add column",
				zap.String("table", schema.Table),
				zap.String("column", column),
				zap.String("statement", stmt))
		} else {
			if err := e.client.Execute(ctx, stmt); err != nil {
				return schema.WithColumns(added...), &DDLError{Table: schema.Table, Column: column, Statement: stmt, Err: err}
			}
			e.logger.Info("Added column",
				zap.String("table", schema.Table),
				zap.String("column", column),
				zap.String("type", sqlType))
		}
		added = append(added, database.ColumnInfo{Name: column, Type: sqlType, Nullable: true})
	}

	return schema.WithColumns(added...), nil
}

// BulkLoad copies every row of sourcePath into table as one unit:
// a COPY on postgres, LOAD DATA in a transaction on mysql, and batched
// INSERTs in a transaction elsewhere. It returns the number of rows loaded.
func (e *Executor) BulkLoad(ctx context.Context, table, sourcePath string, spec LoadSpec) (int64, error) {
	fail := func(err error) (int64, error) {
		return 0, &LoadError{Table: table, Source: sourcePath, Err: err}
	}

	columns := spec.Columns
	if len(columns) == 0 {
		if !spec.Header {
			return fail(errors.New("columns are required for files without a header"))
		}
		header, err := tabular.ReadHeader(sourcePath, spec.options())
		if err != nil {
			return fail(err)
		}
		columns = header
	}

	var (
		rows int64
		err  error
	)
	switch dialect := e.client.Dialect(); dialect {
	case database.DriverPostgres:
		rows, err = e.copyFrom(ctx, table, columns, sourcePath, spec)
	case database.DriverMySQL:
		rows, err = e.loadData(ctx, table, columns, sourcePath, spec)
	default:
		rows, err = e.insertBatches(ctx, table, columns, sourcePath, spec)
	}
	if err != nil {
		return fail(err)
	}

	e.logger.Info("Bulk load complete",
		zap.String("table", table),
		zap.String("source", sourcePath),
		zap.Int64("rows", rows))
	return rows, nil
}

// recordFile streams the data records of a delimited file.
type recordFile struct {
	f *os.File
	r *csv.Reader
}

func openRecords(path string, columns []string, spec LoadSpec) (*recordFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	decoded, err := tabular.NewDecoder(f, spec.Encoding)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r := csv.NewReader(decoded)
	r.Comma = spec.delimiter()
	r.FieldsPerRecord = len(columns)
	if spec.Header {
		if _, err := r.Read(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("read header: %w", err)
		}
	}
	return &recordFile{f: f, r: r}, nil
}

func (rf *recordFile) Close() error { return rf.f.Close() }

// values converts a record to driver values, mapping the null string to nil.
func values(record []string, nullString string) []any {
	out := make([]any, len(record))
	for i, cell := range record {
		if cell == nullString {
			out[i] = nil
			continue
		}
		out[i] = cell
	}
	return out
}

// copySource adapts a recordFile to pgx.CopyFromSource.
type copySource struct {
	rf         *recordFile
	nullString string
	row        []string
	err        error
}

func (s *copySource) Next() bool {
	rec, err := s.rf.r.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		s.err = err
		return false
	}
	s.row = rec
	return true
}

func (s *copySource) Values() ([]any, error) { return values(s.row, s.nullString), nil }

func (s *copySource) Err() error { return s.err }

func (e *Executor) copyFrom(ctx context.Context, table string, columns []string, path string, spec LoadSpec) (int64, error) {
	sqlDB, err := e.client.DB().DB()
	if err != nil {
		return 0, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	rf, err := openRecords(path, columns, spec)
	if err != nil {
		return 0, err
	}
	defer rf.Close()

	var rows int64
	err = conn.Raw(func(driverConn any) error {
		stdConn, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection type %T", driverConn)
		}
		var copyErr error
		rows, copyErr = stdConn.Conn().CopyFrom(ctx, pgx.Identifier(strings.Split(table, ".")), columns,
			&copySource{rf: rf, nullString: spec.NullString})
		return copyErr
	})
	return rows, err
}

func (e *Executor) loadData(ctx context.Context, table string, columns []string, path string, spec LoadSpec) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	decoded, err := tabular.NewDecoder(f, spec.Encoding)
	if err != nil {
		return 0, err
	}
	br := bufio.NewReader(decoded)
	if spec.LineTerminator == "" {
		spec.LineTerminator = detectLineTerminator(br)
	}

	handler := "permit_sync_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	gomysql.RegisterReaderHandler(handler, func() io.Reader { return br })
	defer gomysql.DeregisterReaderHandler(handler)

	stmt := loadDataStatement(handler, table, columns, spec)

	var rows int64
	err = e.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(stmt)
		rows = res.RowsAffected
		return res.Error
	})
	return rows, err
}

// detectLineTerminator reports "\r\n" when the first line ends with a
// carriage return, "\n" otherwise.
func detectLineTerminator(br *bufio.Reader) string {
	head, _ := br.Peek(br.Size())
	if i := bytes.IndexByte(head, '\n'); i > 0 && head[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// loadDataStatement builds a LOAD DATA statement that reads through user
// variables so the null string becomes NULL. Backslashes are not escapes,
// matching encoding/csv on the other load paths.
func loadDataStatement(handler, table string, columns []string, spec LoadSpec) string {
	vars := make([]string, len(columns))
	sets := make([]string, len(columns))
	for i, col := range columns {
		vars[i] = fmt.Sprintf("@v%d", i)
		sets[i] = fmt.Sprintf("%s = NULLIF(@v%d, %s)", database.QuoteName(database.DriverMySQL, col), i, mysqlString(spec.NullString))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LOAD DATA LOCAL INFILE 'Reader::%s' INTO TABLE %s", handler, database.QuoteIdentifier(database.DriverMySQL, table))
	b.WriteString(" CHARACTER SET utf8mb4")
	fmt.Fprintf(&b, " FIELDS TERMINATED BY %s OPTIONALLY ENCLOSED BY '\"' ESCAPED BY ''", mysqlString(string(spec.delimiter())))
	fmt.Fprintf(&b, " LINES TERMINATED BY %s", mysqlString(spec.lineTerminator()))
	if spec.Header {
		b.WriteString(" IGNORE 1 LINES")
	}
	fmt.Fprintf(&b, " (%s) SET %s", strings.Join(vars, ", "), strings.Join(sets, ", "))
	return b.String()
}

func mysqlString(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "'", `\'`, "\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(s)
	return "'" + s + "'"
}

func (e *Executor) insertBatches(ctx context.Context, table string, columns []string, path string, spec LoadSpec) (int64, error) {
	rf, err := openRecords(path, columns, spec)
	if err != nil {
		return 0, err
	}
	defer rf.Close()

	size := spec.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	var rows int64
	err = e.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batch := make([]map[string]any, 0, size)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			res := tx.Table(table).Create(&batch)
			if res.Error != nil {
				return res.Error
			}
			rows += res.RowsAffected
			batch = make([]map[string]any, 0, size)
			return nil
		}

		for {
			record, err := rf.r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			row := make(map[string]any, len(columns))
			for i, v := range values(record, spec.NullString) {
				row[columns[i]] = v
			}
			batch = append(batch, row)
			if len(batch) >= size {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})
	if err != nil {
		return 0, err
	}
	return rows, nil
}
