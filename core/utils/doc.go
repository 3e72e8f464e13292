// Package utils provides common utility functions for permit-sync.
// It includes helpers for converting loosely typed driver values into Go scalars,
// used when query results are turned into datasets.
package utils
