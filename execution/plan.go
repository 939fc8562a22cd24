package execution

import (
	"fmt"
	"strings"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/reader"
)

// PhysicalPlan is the executable mirror of a logical plan node. It is
// a pure blueprint: Get instantiates it into an independent stream
// with a private cursor over the data source.
type PhysicalPlan interface {
	Get(vars common.Variables) (RecordStream, error)
	String() string
}

// indentChild formats a child plan one level deeper for explain
// output.
func indentChild(p PhysicalPlan) string {
	return "  " + strings.ReplaceAll(p.String(), "\n", "\n  ")
}

// ScanPlan reads and decodes raw lines from the bound data source.
type ScanPlan struct {
	schema *reader.Schema
	source common.DataSource
}

// NewScanPlan builds a scan over one schema and data source.
func NewScanPlan(schema *reader.Schema, source common.DataSource) *ScanPlan {
	return &ScanPlan{schema: schema, source: source}
}

func (p *ScanPlan) Get(_ common.Variables) (RecordStream, error) {
	lr, err := reader.OpenSource(p.source)
	if err != nil {
		return nil, &CreateStreamError{Source: p.source, Err: err}
	}
	return &scanStream{schema: p.schema, columns: p.schema.ColumnNames(), lr: lr}, nil
}

func (p *ScanPlan) String() string {
	return fmt.Sprintf("Scan(%s, %s)", p.schema.Name, p.source)
}

// FilterPlan drops tuples whose predicate does not evaluate true.
type FilterPlan struct {
	predicate Formula
	child     PhysicalPlan
}

// NewFilterPlan wraps a child plan with a predicate.
func NewFilterPlan(predicate Formula, child PhysicalPlan) *FilterPlan {
	return &FilterPlan{predicate: predicate, child: child}
}

func (p *FilterPlan) Get(vars common.Variables) (RecordStream, error) {
	child, err := p.child.Get(vars)
	if err != nil {
		return nil, err
	}
	return &filterStream{child: child, predicate: p.predicate, vars: vars}, nil
}

func (p *FilterPlan) String() string {
	return fmt.Sprintf("Filter(%s)\n%s", p.predicate, indentChild(p.child))
}

// ProjectPlan maps the child's full tuple onto the resolved output
// columns, preserving the requested order.
type ProjectPlan struct {
	columns []string
	indexes []int
	child   PhysicalPlan
}

// NewProjectPlan builds a projection. indexes holds, per output
// column, its position in the child's tuple.
func NewProjectPlan(columns []string, indexes []int, child PhysicalPlan) *ProjectPlan {
	return &ProjectPlan{columns: columns, indexes: indexes, child: child}
}

func (p *ProjectPlan) Get(vars common.Variables) (RecordStream, error) {
	child, err := p.child.Get(vars)
	if err != nil {
		return nil, err
	}
	return &projectStream{child: child, columns: p.columns, indexes: p.indexes}, nil
}

func (p *ProjectPlan) String() string {
	return fmt.Sprintf("Project(%s)\n%s", strings.Join(p.columns, ", "), indentChild(p.child))
}

// LimitPlan passes through at most n rows.
type LimitPlan struct {
	n     int64
	child PhysicalPlan
}

// NewLimitPlan wraps a child plan with a row budget.
func NewLimitPlan(n int64, child PhysicalPlan) *LimitPlan {
	return &LimitPlan{n: n, child: child}
}

func (p *LimitPlan) Get(vars common.Variables) (RecordStream, error) {
	child, err := p.child.Get(vars)
	if err != nil {
		return nil, err
	}
	return &limitStream{child: child, remaining: p.n}, nil
}

func (p *LimitPlan) String() string {
	return fmt.Sprintf("Limit(%d)\n%s", p.n, indentChild(p.child))
}
