package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/logq/execution"
)

// TableFormatter renders records as an aligned text table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes the stream as a table. The table renders only after
// the stream finished cleanly, so a mid-stream error produces no
// partial table.
func (t *TableFormatter) Format(stream execution.RecordStream) error {
	table := tablewriter.NewWriter(t.writer)

	first := true
	for stream.Next() {
		rec := stream.Record()
		if first {
			table.SetHeader(rec.Columns())
			first = false
		}
		table.Append(rec.ToRow())
	}
	if err := stream.Err(); err != nil {
		return err
	}
	if first {
		// No rows at all; nothing to render.
		return nil
	}

	table.Render()
	return nil
}
