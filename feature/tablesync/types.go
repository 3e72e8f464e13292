package tablesync

import (
	"permit-sync/core/database"
	"permit-sync/core/dataset"
	"permit-sync/core/tabular"
)

// LoadSpec describes the file handed to BulkLoad.
type LoadSpec struct {
	// Delimiter is the field separator. Zero means ','.
	Delimiter rune
	// Header reports whether the first line holds column names.
	Header bool
	// Columns names the target columns in file order. Empty uses the header.
	Columns []string
	// Encoding is the file character encoding.
	Encoding string
	// NullString is the cell text loaded as NULL.
	NullString string
	// LineTerminator ends each record. Empty detects "\r\n" or "\n" from the
	// first line of the file.
	LineTerminator string
	// BatchSize bounds each INSERT on dialects without a bulk path.
	BatchSize int
}

// LoadSpecFromConfig derives a LoadSpec for files written with cfg.
func LoadSpecFromConfig(cfg tabular.Config, batchSize int) LoadSpec {
	opts := cfg.Options()
	return LoadSpec{
		Delimiter:  opts.Delimiter,
		Header:     true,
		Encoding:   opts.Encoding,
		NullString: opts.NullString,
		BatchSize:  batchSize,
	}
}

func (s LoadSpec) options() tabular.Options {
	return tabular.Options{Delimiter: s.Delimiter, Encoding: s.Encoding, NullString: s.NullString}
}

func (s LoadSpec) delimiter() rune {
	if s.Delimiter == 0 {
		return ','
	}
	return s.Delimiter
}

func (s LoadSpec) lineTerminator() string {
	if s.LineTerminator == "" {
		return "\n"
	}
	return s.LineTerminator
}

// TypeResolver returns the SQL column type for a dataset column.
type TypeResolver func(column string) string

// TypesFromDataset infers column types from the dataset's value kinds.
// Unknown columns resolve to the dialect's text type.
func TypesFromDataset(ds *dataset.Dataset, dialect string) TypeResolver {
	return func(column string) string {
		if ds == nil {
			return database.SQLType(dialect, dataset.KindText)
		}
		col, err := ds.Column(column)
		if err != nil {
			return database.SQLType(dialect, dataset.KindText)
		}
		return database.SQLType(dialect, col.Kind())
	}
}
