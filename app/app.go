// Package app is the driver: it wires the syntax parser, the logical
// planner, the physical-plan compiler and the streaming executor
// together and dispatches the result stream to a renderer. It owns no
// query logic of its own.
package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/logical"
	"github.com/vegasq/logq/output"
	"github.com/vegasq/logq/query"
)

// knownFormats is the fixed set of accepted table identifiers,
// checked before any planning happens.
var knownFormats = []string{"elb", "alb", "squid", "s3"}

// ErrInvalidLogFileFormat rejects a table identifier outside the
// supported set.
var ErrInvalidLogFileFormat = errors.New("invalid log file format")

// NotAllConsumedError reports query text left over after a successful
// parse. The statement itself was valid; the trailing garbage was not.
type NotAllConsumedError struct {
	Leftover string
}

func (e *NotAllConsumedError) Error() string {
	return fmt.Sprintf("input is not all consumed, the leftover is %q", e.Leftover)
}

// OutputMode selects a result renderer.
type OutputMode int

const (
	OutputTable OutputMode = iota
	OutputCSV
	OutputJSON
)

// ParseOutputMode parses a mode name from the command line.
func ParseOutputMode(s string) (OutputMode, error) {
	switch s {
	case "table":
		return OutputTable, nil
	case "csv":
		return OutputCSV, nil
	case "json":
		return OutputJSON, nil
	default:
		return OutputTable, fmt.Errorf("unknown output mode %q", s)
	}
}

func newFormatter(mode OutputMode, w io.Writer) (output.Formatter, error) {
	switch mode {
	case OutputTable:
		return output.NewTableFormatter(w), nil
	case OutputCSV:
		return output.NewCSVFormatter(w), nil
	case OutputJSON:
		return output.NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output mode %d", int(mode))
	}
}

// Run executes one query against one data source and renders the
// result to out. In explain mode it prints the compiled physical plan
// instead and reads no rows. Every failure is returned as a value;
// the process state stays clean for a subsequent query.
func Run(queryStr string, source common.DataSource, explain bool, mode OutputMode, out io.Writer, logger log.Logger) error {
	stmt, rest, err := query.Parse(queryStr)
	if err != nil {
		return err
	}
	if leftover := strings.TrimSpace(rest); leftover != "" {
		return &NotAllConsumedError{Leftover: leftover}
	}
	level.Debug(logger).Log("msg", "parsed query", "table", stmt.TableName)

	if !isKnownFormat(stmt.TableName) {
		return ErrInvalidLogFileFormat
	}

	node, err := logical.ParseQuery(stmt, source)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "built logical plan", "plan", node.String())

	creator := logical.NewPhysicalPlanCreator(source)
	plan, variables, err := node.Physical(creator)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "compiled physical plan", "variables", len(variables))

	if explain {
		fmt.Fprintln(out, "Query Plan:")
		fmt.Fprintln(out, plan.String())
		return nil
	}

	stream, err := plan.Get(variables)
	if err != nil {
		return err
	}
	defer stream.Close()

	formatter, err := newFormatter(mode, out)
	if err != nil {
		return err
	}
	if err := formatter.Format(stream); err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "query finished")
	return nil
}

func isKnownFormat(name string) bool {
	for _, f := range knownFormats {
		if f == name {
			return true
		}
	}
	return false
}
