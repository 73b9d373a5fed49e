// Package export renders stored workouts and their derived metrics into
// CSV, JSON, PWX (XML), and plain-text reports, and builds ML feature rows
// for model training, using a canonical bit-stable column order for every
// tabular format (spec §6).
package export

import "fmt"

// UnsupportedFormatError signals a requested export format this package does
// not implement.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("export: unsupported format %q", e.Format)
}
