package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"permit-sync/core/dataset"
)

// Write saves ds as delimited text at path, creating parent directories.
// The file is written next to path and renamed into place.
func Write(path string, ds *dataset.Dataset, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".permit-sync-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteTo(tmp, ds, opts); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteTo encodes ds as delimited text on w, header first.
func WriteTo(w io.Writer, ds *dataset.Dataset, opts Options) error {
	encoded, err := encodeWriter(w, opts.Encoding)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(encoded)

	cw := csv.NewWriter(buf)
	cw.Comma = opts.delimiter()

	if err := cw.Write(ds.Names()); err != nil {
		return err
	}
	record := make([]string, ds.Width())
	for i := 0; i < ds.Len(); i++ {
		for j, v := range ds.Row(i) {
			if v.IsNull() && v.Raw == "" {
				record[j] = opts.NullString
			} else {
				record[j] = v.Cell()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return encoded.Close()
}
