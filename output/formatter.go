// Package output provides renderers for query result streams.
//
// Supported formats:
//   - Table: aligned text table
//   - CSV: comma-separated values with header row
//   - JSON: one array of objects with original-typed fields
//
// Every formatter pulls records from the stream itself, so rendering
// stops immediately when the stream reports an error; no truncated
// result set is emitted as if it were complete.
package output

import (
	"io"

	"github.com/vegasq/logq/execution"
)

// Formatter defines the interface for result renderers.
type Formatter interface {
	// Format pulls every record from the stream and writes it in the
	// formatter's specific format.
	Format(stream execution.RecordStream) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}
