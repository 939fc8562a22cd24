// Package logical builds and lowers logical query plans. The planner
// resolves the projected columns against the log format's schema,
// type-checks the filter expression, and produces a
// Scan/Filter/Project/Limit tree; each node lowers 1:1 into its
// executable physical counterpart.
package logical

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/execution"
	"github.com/vegasq/logq/reader"
)

// Node is one node of the logical plan tree. Each parent exclusively
// owns its children; lowering consumes the tree bottom-up.
type Node interface {
	// Physical lowers the node against the creator's data source,
	// returning the executable plan and any variable bindings the
	// lowering introduced.
	Physical(c *PhysicalPlanCreator) (execution.PhysicalPlan, common.Variables, error)
	String() string
}

// PhysicalPlanCreator lowers logical plans against a single concrete
// data source. It also allocates the variable names that carry
// compile-time constants into stream execution.
type PhysicalPlanCreator struct {
	source common.DataSource
	varSeq int
}

// NewPhysicalPlanCreator binds a creator to one data source.
func NewPhysicalPlanCreator(source common.DataSource) *PhysicalPlanCreator {
	return &PhysicalPlanCreator{source: source}
}

// DataSource returns the bound data source descriptor.
func (c *PhysicalPlanCreator) DataSource() common.DataSource {
	return c.source
}

// newVariable allocates the next free variable name.
func (c *PhysicalPlanCreator) newVariable() common.VariableName {
	name := fmt.Sprintf("c%d", c.varSeq)
	c.varSeq++
	return name
}

// PhysicalPlanError reports a data-source binding failure during
// lowering. Binding fails here, never later during streaming.
type PhysicalPlanError struct {
	Source common.DataSource
	Err    error
}

func (e *PhysicalPlanError) Error() string {
	return fmt.Sprintf("cannot bind data source %s: %v", e.Source, e.Err)
}

func (e *PhysicalPlanError) Unwrap() error {
	return e.Err
}

// Scan is the leaf of every plan: read and decode lines of one log
// format from the data source the query was planned against.
type Scan struct {
	Table  string
	Schema *reader.Schema
	Source common.DataSource
}

func (s *Scan) Physical(c *PhysicalPlanCreator) (execution.PhysicalPlan, common.Variables, error) {
	if err := reader.ValidateSource(c.source); err != nil {
		return nil, nil, &PhysicalPlanError{Source: c.source, Err: err}
	}
	return execution.NewScanPlan(s.Schema, c.source), common.EmptyVariables(), nil
}

func (s *Scan) String() string {
	return fmt.Sprintf("Scan(%s, %s)", s.Table, s.Source)
}

// Filter keeps the child's tuples matching a predicate.
type Filter struct {
	Predicate Formula
	Child     Node
}

func (f *Filter) Physical(c *PhysicalPlanCreator) (execution.PhysicalPlan, common.Variables, error) {
	child, vars, err := f.Child.Physical(c)
	if err != nil {
		return nil, nil, err
	}
	formula, err := f.Predicate.physical(c, vars)
	if err != nil {
		return nil, nil, err
	}
	return execution.NewFilterPlan(formula, child), vars, nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter(%s)\n  %s", f.Predicate, strings.ReplaceAll(f.Child.String(), "\n", "\n  "))
}

// Project narrows the child's tuples to the resolved output columns.
type Project struct {
	Columns []string
	Indexes []int
	Child   Node
}

func (p *Project) Physical(c *PhysicalPlanCreator) (execution.PhysicalPlan, common.Variables, error) {
	child, vars, err := p.Child.Physical(c)
	if err != nil {
		return nil, nil, err
	}
	return execution.NewProjectPlan(p.Columns, p.Indexes, child), vars, nil
}

func (p *Project) String() string {
	return fmt.Sprintf("Project(%s)\n  %s", strings.Join(p.Columns, ", "), strings.ReplaceAll(p.Child.String(), "\n", "\n  "))
}

// Limit caps the number of output rows.
type Limit struct {
	N     int64
	Child Node
}

func (l *Limit) Physical(c *PhysicalPlanCreator) (execution.PhysicalPlan, common.Variables, error) {
	child, vars, err := l.Child.Physical(c)
	if err != nil {
		return nil, nil, err
	}
	return execution.NewLimitPlan(l.N, child), vars, nil
}

func (l *Limit) String() string {
	return fmt.Sprintf("Limit(%d)\n  %s", l.N, strings.ReplaceAll(l.Child.String(), "\n", "\n  "))
}

// Formula is a type-checked boolean expression over schema columns.
type Formula interface {
	// physical lowers the formula, adding constant bindings to vars.
	physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Formula, error)
	String() string
}

// And is true when both children are true.
type And struct {
	Left, Right Formula
}

func (a *And) physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Formula, error) {
	left, err := a.Left.physical(c, vars)
	if err != nil {
		return nil, err
	}
	right, err := a.Right.physical(c, vars)
	if err != nil {
		return nil, err
	}
	return &execution.AndFormula{Left: left, Right: right}, nil
}

func (a *And) String() string {
	return "(" + a.Left.String() + " AND " + a.Right.String() + ")"
}

// Or is true when either child is true.
type Or struct {
	Left, Right Formula
}

func (o *Or) physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Formula, error) {
	left, err := o.Left.physical(c, vars)
	if err != nil {
		return nil, err
	}
	right, err := o.Right.physical(c, vars)
	if err != nil {
		return nil, err
	}
	return &execution.OrFormula{Left: left, Right: right}, nil
}

func (o *Or) String() string {
	return "(" + o.Left.String() + " OR " + o.Right.String() + ")"
}

// Predicate compares two operands.
type Predicate struct {
	Op    execution.CmpOp
	Left  Operand
	Right Operand
}

func (p *Predicate) physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Formula, error) {
	left, err := p.Left.physical(c, vars)
	if err != nil {
		return nil, err
	}
	right, err := p.Right.physical(c, vars)
	if err != nil {
		return nil, err
	}
	return &execution.PredicateFormula{Op: p.Op, Left: left, Right: right}, nil
}

func (p *Predicate) String() string {
	return p.Left.String() + " " + p.Op.String() + " " + p.Right.String()
}

// Operand is one side of a predicate: a schema column or a constant.
type Operand interface {
	physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Expression, error)
	String() string
}

// ColumnOperand references a schema column by name and resolved
// position.
type ColumnOperand struct {
	Name  string
	Index int
	Kind  common.Kind
}

func (o *ColumnOperand) physical(_ *PhysicalPlanCreator, _ common.Variables) (execution.Expression, error) {
	return &execution.ColumnExpression{Name: o.Name, Index: o.Index}, nil
}

func (o *ColumnOperand) String() string {
	return o.Name
}

// ConstOperand is a literal already coerced to the compared column's
// kind. Lowering folds it into a named variable binding so the
// physical predicate only ever references variables.
type ConstOperand struct {
	Value common.Value
}

func (o *ConstOperand) physical(c *PhysicalPlanCreator, vars common.Variables) (execution.Expression, error) {
	name := c.newVariable()
	if _, exists := vars[name]; exists {
		return nil, errors.Errorf("variable %q bound twice", name)
	}
	vars[name] = o.Value
	return &execution.VariableExpression{Name: name}, nil
}

func (o *ConstOperand) String() string {
	return o.Value.String()
}
