package logical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/execution"
	"github.com/vegasq/logq/query"
	"github.com/vegasq/logq/reader"
)

// UnknownTableError reports a table identifier with no registered
// schema. The driver whitelists formats before planning, so hitting
// this means the whitelist and the schema registry disagree.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown log format %q", e.Table)
}

// UnknownColumnError reports a projected or filtered column that the
// format's schema does not declare.
type UnknownColumnError struct {
	Column string
	Table  string
	Known  []string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in %s (known columns: %s)",
		e.Column, e.Table, strings.Join(e.Known, ", "))
}

// TypeMismatchError reports a literal that cannot be coerced to the
// compared column's declared kind.
type TypeMismatchError struct {
	Column  string
	Kind    common.Kind
	Literal string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("cannot compare column %q (%s) with literal %s",
		e.Column, e.Kind, e.Literal)
}

// PredicateError reports a structurally invalid filter expression.
type PredicateError struct {
	Reason string
}

func (e *PredicateError) Error() string {
	return "invalid predicate: " + e.Reason
}

// ParseQuery validates a parsed SELECT statement against the target
// format's schema and builds the logical plan tree, bottom-up:
// Scan, wrapped in Filter when a predicate exists, wrapped in Project,
// wrapped in Limit when a limit was given. The shape is fixed; no
// reordering happens later.
func ParseQuery(stmt *query.SelectStatement, source common.DataSource) (Node, error) {
	schema, ok := reader.Schemas[stmt.TableName]
	if !ok {
		return nil, &UnknownTableError{Table: stmt.TableName}
	}

	columns, indexes, err := resolveProjection(stmt, schema)
	if err != nil {
		return nil, err
	}

	var node Node = &Scan{Table: stmt.TableName, Schema: schema, Source: source}

	if stmt.Where != nil {
		predicate, err := planFormula(stmt.Where, schema)
		if err != nil {
			return nil, err
		}
		node = &Filter{Predicate: predicate, Child: node}
	}

	node = &Project{Columns: columns, Indexes: indexes, Child: node}

	if stmt.Limit != nil {
		node = &Limit{N: *stmt.Limit, Child: node}
	}

	return node, nil
}

// resolveProjection expands '*' to the schema's declared column order
// and resolves explicit column lists to schema positions.
func resolveProjection(stmt *query.SelectStatement, schema *reader.Schema) ([]string, []int, error) {
	if stmt.Star {
		columns := schema.ColumnNames()
		indexes := make([]int, len(columns))
		for i := range indexes {
			indexes[i] = i
		}
		return columns, indexes, nil
	}

	columns := make([]string, len(stmt.Projection))
	indexes := make([]int, len(stmt.Projection))
	for i, name := range stmt.Projection {
		idx, _, ok := schema.Lookup(name)
		if !ok {
			return nil, nil, &UnknownColumnError{Column: name, Table: schema.Name, Known: schema.ColumnNames()}
		}
		columns[i] = name
		indexes[i] = idx
	}
	return columns, indexes, nil
}

// planFormula type-checks a WHERE expression tree against the schema
// and converts it to a logical formula.
func planFormula(expr query.Expr, schema *reader.Schema) (Formula, error) {
	e, ok := expr.(*query.BinaryExpr)
	if !ok {
		return nil, &PredicateError{Reason: "filter must be a comparison"}
	}

	switch e.Op {
	case "and":
		left, err := planFormula(e.Left, schema)
		if err != nil {
			return nil, err
		}
		right, err := planFormula(e.Right, schema)
		if err != nil {
			return nil, err
		}
		return &And{Left: left, Right: right}, nil
	case "or":
		left, err := planFormula(e.Left, schema)
		if err != nil {
			return nil, err
		}
		right, err := planFormula(e.Right, schema)
		if err != nil {
			return nil, err
		}
		return &Or{Left: left, Right: right}, nil
	}

	op, ok := cmpOps[e.Op]
	if !ok {
		return nil, &PredicateError{Reason: fmt.Sprintf("unsupported operator %q", e.Op)}
	}
	return planPredicate(op, e.Left, e.Right, schema)
}

var cmpOps = map[string]execution.CmpOp{
	"=": execution.CmpEq, "!=": execution.CmpNe,
	"<": execution.CmpLt, "<=": execution.CmpLe,
	">": execution.CmpGt, ">=": execution.CmpGe,
}

// planPredicate type-checks one comparison. At least one side must be
// a column; a literal is coerced to the kind of the column it is
// compared against.
func planPredicate(op execution.CmpOp, left, right query.Expr, schema *reader.Schema) (Formula, error) {
	lcol, lIsCol := left.(*query.ColumnExpr)
	rcol, rIsCol := right.(*query.ColumnExpr)

	switch {
	case lIsCol && rIsCol:
		lo, err := resolveColumn(lcol.Name, schema)
		if err != nil {
			return nil, err
		}
		ro, err := resolveColumn(rcol.Name, schema)
		if err != nil {
			return nil, err
		}
		if lo.Kind != ro.Kind {
			return nil, &PredicateError{Reason: fmt.Sprintf(
				"cannot compare column %q (%s) with column %q (%s)",
				lo.Name, lo.Kind, ro.Name, ro.Kind)}
		}
		return &Predicate{Op: op, Left: lo, Right: ro}, nil

	case lIsCol:
		lo, err := resolveColumn(lcol.Name, schema)
		if err != nil {
			return nil, err
		}
		ro, err := coerceLiteral(right, lo)
		if err != nil {
			return nil, err
		}
		return &Predicate{Op: op, Left: lo, Right: ro}, nil

	case rIsCol:
		ro, err := resolveColumn(rcol.Name, schema)
		if err != nil {
			return nil, err
		}
		lo, err := coerceLiteral(left, ro)
		if err != nil {
			return nil, err
		}
		return &Predicate{Op: op, Left: lo, Right: ro}, nil

	default:
		return nil, &PredicateError{Reason: "predicate must reference at least one column"}
	}
}

func resolveColumn(name string, schema *reader.Schema) (*ColumnOperand, error) {
	idx, col, ok := schema.Lookup(name)
	if !ok {
		return nil, &UnknownColumnError{Column: name, Table: schema.Name, Known: schema.ColumnNames()}
	}
	return &ColumnOperand{Name: name, Index: idx, Kind: col.Kind}, nil
}

// coerceLiteral converts a literal expression to the kind of the
// column it is compared against.
func coerceLiteral(expr query.Expr, col *ColumnOperand) (*ConstOperand, error) {
	lit, ok := expr.(*query.LiteralExpr)
	if !ok {
		return nil, &PredicateError{Reason: "comparison operand must be a column or a literal"}
	}

	mismatch := func() error {
		return &TypeMismatchError{Column: col.Name, Kind: col.Kind, Literal: literalText(lit)}
	}

	if lit.Kind == "null" {
		// Null coerces to every kind; the comparison is then never
		// true, which is the documented three-valued behavior.
		return &ConstOperand{Value: common.Null()}, nil
	}

	switch col.Kind {
	case common.KindInt:
		if lit.Kind != "int" {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewInt(lit.Int)}, nil
	case common.KindFloat:
		switch lit.Kind {
		case "int":
			return &ConstOperand{Value: common.NewFloat(float64(lit.Int))}, nil
		case "float":
			return &ConstOperand{Value: common.NewFloat(lit.Float)}, nil
		}
		return nil, mismatch()
	case common.KindString:
		if lit.Kind != "string" {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewString(lit.Str)}, nil
	case common.KindBool:
		if lit.Kind != "bool" {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewBool(lit.Bool)}, nil
	case common.KindDateTime:
		if lit.Kind != "string" {
			return nil, mismatch()
		}
		t, err := time.Parse(time.RFC3339Nano, lit.Str)
		if err != nil {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewDateTime(t)}, nil
	case common.KindHost:
		if lit.Kind != "string" {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewHost(lit.Str)}, nil
	case common.KindHTTPRequest:
		if lit.Kind != "string" {
			return nil, mismatch()
		}
		parts := strings.SplitN(lit.Str, " ", 3)
		if len(parts) != 3 {
			return nil, mismatch()
		}
		return &ConstOperand{Value: common.NewHTTPRequest(common.HTTPRequest{
			Method: parts[0], Path: parts[1], Protocol: parts[2],
		})}, nil
	default:
		return nil, mismatch()
	}
}

// literalText renders a literal for error messages.
func literalText(lit *query.LiteralExpr) string {
	switch lit.Kind {
	case "int":
		return strconv.FormatInt(lit.Int, 10)
	case "float":
		return strconv.FormatFloat(lit.Float, 'g', -1, 64)
	case "string":
		return strconv.Quote(lit.Str)
	case "bool":
		return strconv.FormatBool(lit.Bool)
	case "null":
		return "null"
	default:
		return "?"
	}
}
