package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vegasq/logq/execution"
)

// CSVFormatter outputs records as CSV with a header row.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the stream as CSV. The header comes from the first
// record's column order, which the projection fixed at plan time.
// Rows are written as they arrive, so on a mid-stream error rows that
// already left csv.Writer's buffer have reached the output; callers
// needing all-or-nothing output should use the JSON or table
// formatter, which buffer until the stream finishes cleanly.
func (c *CSVFormatter) Format(stream execution.RecordStream) error {
	csvWriter := csv.NewWriter(c.writer)

	wroteHeader := false
	for stream.Next() {
		rec := stream.Record()
		if !wroteHeader {
			if err := csvWriter.Write(rec.Columns()); err != nil {
				return fmt.Errorf("failed to write CSV header: %w", err)
			}
			wroteHeader = true
		}
		if err := csvWriter.Write(rec.ToCSVRecord()); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
