package app

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/execution"
	"github.com/vegasq/logq/logical"
	"github.com/vegasq/logq/query"
)

func testdata(name string) common.DataSource {
	return common.NewFileSource(filepath.Join("..", "testdata", name))
}

func runJSON(t *testing.T, queryStr string, source common.DataSource) []map[string]interface{} {
	t.Helper()
	var buf bytes.Buffer
	err := Run(queryStr, source, false, OutputJSON, &buf, log.NewNopLogger())
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	return rows
}

func TestRunSelectStarWithLimit(t *testing.T) {
	rows := runJSON(t, "SELECT * FROM elb LIMIT 1", testdata("elb.log"))
	require.Len(t, rows, 1)
	// Every schema column is present.
	require.Len(t, rows[0], 15)
	require.Equal(t, float64(200), rows[0]["elb_status_code"])
	require.Equal(t, "2015-05-13T23:39:43.945958Z", rows[0]["timestamp"])
}

func TestRunProjectionAndFilter(t *testing.T) {
	rows := runJSON(t,
		"SELECT timestamp, sent_bytes FROM elb WHERE elb_status_code = 200",
		testdata("elb.log"))
	require.NotEmpty(t, rows)
	for _, row := range rows {
		require.Len(t, row, 2)
		require.Contains(t, row, "timestamp")
		require.Contains(t, row, "sent_bytes")
	}
}

func TestRunUnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	err := Run("SELECT foo FROM elb", testdata("elb.log"), false, OutputJSON, &buf, log.NewNopLogger())
	require.Error(t, err)
	var colErr *logical.UnknownColumnError
	require.ErrorAs(t, err, &colErr)
	require.Equal(t, "foo", colErr.Column)
	require.Empty(t, buf.String())
}

func TestRunUnknownFormat(t *testing.T) {
	err := Run("SELECT * FROM bogus", testdata("elb.log"), false, OutputJSON, new(bytes.Buffer), log.NewNopLogger())
	require.ErrorIs(t, err, ErrInvalidLogFileFormat)
}

func TestRunLeftoverInput(t *testing.T) {
	tests := []struct {
		query    string
		leftover string
	}{
		{"SELECT * FROM elb extra_garbage", "extra_garbage"},
		{"SELECT * FROM elb; DROP TABLE elb", "; DROP TABLE elb"},
	}
	for _, tt := range tests {
		err := Run(tt.query, testdata("elb.log"), false, OutputJSON, new(bytes.Buffer), log.NewNopLogger())
		require.Error(t, err)
		var leftErr *NotAllConsumedError
		require.ErrorAs(t, err, &leftErr)
		require.Equal(t, tt.leftover, leftErr.Leftover)
	}
}

func TestRunSyntaxError(t *testing.T) {
	err := Run("SELECT FROM elb", testdata("elb.log"), false, OutputJSON, new(bytes.Buffer), log.NewNopLogger())
	require.Error(t, err)
	var synErr *query.SyntaxError
	require.ErrorAs(t, err, &synErr)
}

// A malformed line in the source aborts the query with an error that
// names the line.
func TestRunMalformedSource(t *testing.T) {
	var buf bytes.Buffer
	err := Run("SELECT * FROM elb", testdata("elb_malformed.log"), false, OutputJSON, &buf, log.NewNopLogger())
	require.Error(t, err)
	var streamErr *execution.StreamError
	require.ErrorAs(t, err, &streamErr)
	require.Equal(t, 2, streamErr.Line)
	// Buffered JSON output emits nothing on failure.
	require.Empty(t, buf.String())
}

func TestRunExplain(t *testing.T) {
	var buf bytes.Buffer
	err := Run("SELECT timestamp FROM elb WHERE elb_status_code = 200 LIMIT 3",
		testdata("elb.log"), true, OutputTable, &buf, log.NewNopLogger())
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Query Plan:\n"))
	require.Contains(t, out, "Limit(3)")
	require.Contains(t, out, "Project(timestamp)")
	require.Contains(t, out, "Filter(")
	require.Contains(t, out, "Scan(elb")
	// Explain prints the plan, never rows.
	require.NotContains(t, out, "2015-05-13")
}

// Explain works even when the file would fail to stream: it reads no
// rows.
func TestRunExplainMalformedSource(t *testing.T) {
	var buf bytes.Buffer
	err := Run("SELECT * FROM elb", testdata("elb_malformed.log"), true, OutputTable, &buf, log.NewNopLogger())
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Query Plan:")
}

// Running the same query twice over the same file produces identical
// output.
func TestRunIdempotent(t *testing.T) {
	const q = "SELECT timestamp, elb_status_code FROM elb WHERE sent_bytes > 0"
	var first, second bytes.Buffer
	require.NoError(t, Run(q, testdata("elb.log"), false, OutputCSV, &first, log.NewNopLogger()))
	require.NoError(t, Run(q, testdata("elb.log"), false, OutputCSV, &second, log.NewNopLogger()))
	require.Equal(t, first.String(), second.String())
}

func TestRunGzipSource(t *testing.T) {
	plain := runJSON(t, "SELECT * FROM elb", testdata("elb.log"))
	gz := runJSON(t, "SELECT * FROM elb", testdata("elb.log.gz"))
	require.Equal(t, plain, gz)
}

func TestParseOutputMode(t *testing.T) {
	for name, want := range map[string]OutputMode{
		"table": OutputTable, "csv": OutputCSV, "json": OutputJSON,
	} {
		got, err := ParseOutputMode(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseOutputMode("xml")
	require.Error(t, err)
}
