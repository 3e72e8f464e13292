package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"permit-sync/core/dataset"
)

// Load reads a delimited file with a header row into a Dataset.
func Load(path string, opts Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readDataset(f, path, opts, -1)
}

// LoadReader reads delimited text from r. name is used in error messages.
func LoadReader(r io.Reader, name string, opts Options) (*dataset.Dataset, error) {
	return readDataset(r, name, opts, -1)
}

// Head reads at most n data rows from path.
func Head(path string, n int, opts Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readDataset(f, path, opts, n)
}

// ReadHeader returns the column names of a delimited file.
func ReadHeader(path string, opts Options) ([]string, error) {
	ds, err := Head(path, 0, opts)
	if err != nil {
		return nil, err
	}
	return ds.Names(), nil
}

func readDataset(r io.Reader, name string, opts Options, limit int) (*dataset.Dataset, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.Comma = opts.delimiter()
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: name, Err: errors.New("missing header row")}
		}
		return nil, parseError(name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	cells := make([][]string, len(header))
	for rows := 0; limit < 0 || rows < limit; rows++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(name, err)
		}
		for i, cell := range record {
			cells[i] = append(cells[i], cell)
		}
	}

	columns := make([]dataset.Column, len(header))
	for i, col := range header {
		columns[i] = dataset.ParseColumn(col, cells[i], opts.NullString)
	}

	ds, err := dataset.New(columns...)
	if err != nil {
		return nil, &ParseError{Path: name, Err: err}
	}
	return ds, nil
}

func parseError(name string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Path: name, Line: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Path: name, Err: err}
}
