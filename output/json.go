package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vegasq/logq/execution"
)

// JSONFormatter outputs records as one JSON array of objects. Fields
// keep their original types: booleans stay booleans, numbers stay
// numbers, timestamps render as RFC3339 strings, null stays null.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the stream as a JSON array. The array is buffered and
// written only after the stream finished cleanly, so a mid-stream
// error produces no output instead of a truncated array.
func (j *JSONFormatter) Format(stream execution.RecordStream) error {
	rows := []json.RawMessage{}
	for stream.Next() {
		raw, err := json.Marshal(stream.Record())
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		rows = append(rows, raw)
	}
	if err := stream.Err(); err != nil {
		return err
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode result array: %w", err)
	}
	out = append(out, '\n')
	if _, err := j.writer.Write(out); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}
