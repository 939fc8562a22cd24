package execution

import (
	"fmt"

	"github.com/vegasq/logq/common"
)

// CreateStreamError reports a failure to open the data source when a
// physical plan is instantiated into a stream.
type CreateStreamError struct {
	Source common.DataSource
	Err    error
}

func (e *CreateStreamError) Error() string {
	return fmt.Sprintf("cannot open stream over %s: %v", e.Source, e.Err)
}

func (e *CreateStreamError) Unwrap() error {
	return e.Err
}

// StreamError reports a decoding or I/O failure mid-stream. Line is
// the 1-based ordinal of the offending line in the data source.
type StreamError struct {
	Line   int
	Format string
	Err    error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Format, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
