package tablesync

import (
	"errors"
	"fmt"
)

var (
	// ErrDDL is returned when a schema mutation fails.
	ErrDDL = errors.New("schema mutation failed")
	// ErrLoad is returned when a bulk transfer fails.
	ErrLoad = errors.New("bulk load failed")
	// ErrRunInProgress is returned when a mutating run starts while another
	// is still applying changes.
	ErrRunInProgress = errors.New("sync run already in progress")
)

// DDLError describes a failed ALTER TABLE statement.
type DDLError struct {
	Table     string
	Column    string
	Statement string
	Err       error
}

func (e *DDLError) Error() string {
	return fmt.Sprintf("add column %s to %s: %v", e.Column, e.Table, e.Err)
}

func (e *DDLError) Unwrap() error { return e.Err }

func (e *DDLError) Is(target error) bool { return target == ErrDDL }

// LoadError describes a failed bulk load.
type LoadError struct {
	Table  string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s into %s: %v", e.Source, e.Table, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }
