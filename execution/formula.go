package execution

import (
	"github.com/pkg/errors"

	"github.com/vegasq/logq/common"
)

// CmpOp is a comparison operator of a physical predicate.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var cmpNames = map[CmpOp]string{
	CmpEq: "=", CmpNe: "!=", CmpLt: "<", CmpLe: "<=", CmpGt: ">", CmpGe: ">=",
}

func (op CmpOp) String() string {
	if s, ok := cmpNames[op]; ok {
		return s
	}
	return "?"
}

// Expression produces a value from the current tuple and the
// plan-time variable bindings.
type Expression interface {
	Eval(tuple common.Tuple, vars common.Variables) (common.Value, error)
	String() string
}

// ColumnExpression reads a column of the scanned tuple by position.
type ColumnExpression struct {
	Name  string
	Index int
}

func (e *ColumnExpression) Eval(tuple common.Tuple, _ common.Variables) (common.Value, error) {
	if e.Index < 0 || e.Index >= len(tuple) {
		return common.Null(), errors.Errorf("column %q index %d out of range", e.Name, e.Index)
	}
	return tuple[e.Index], nil
}

func (e *ColumnExpression) String() string {
	return e.Name
}

// VariableExpression reads a value bound by the physical-plan
// compiler.
type VariableExpression struct {
	Name common.VariableName
}

func (e *VariableExpression) Eval(_ common.Tuple, vars common.Variables) (common.Value, error) {
	v, ok := vars[e.Name]
	if !ok {
		return common.Null(), errors.Errorf("unbound variable %q", e.Name)
	}
	return v, nil
}

func (e *VariableExpression) String() string {
	return e.Name
}

// Formula is an executable boolean expression over one tuple.
type Formula interface {
	Eval(tuple common.Tuple, vars common.Variables) (bool, error)
	String() string
}

// AndFormula is true when both children are true.
type AndFormula struct {
	Left, Right Formula
}

func (f *AndFormula) Eval(tuple common.Tuple, vars common.Variables) (bool, error) {
	l, err := f.Left.Eval(tuple, vars)
	if err != nil {
		return false, err
	}
	if !l {
		return false, nil
	}
	return f.Right.Eval(tuple, vars)
}

func (f *AndFormula) String() string {
	return "(" + f.Left.String() + " AND " + f.Right.String() + ")"
}

// OrFormula is true when either child is true.
type OrFormula struct {
	Left, Right Formula
}

func (f *OrFormula) Eval(tuple common.Tuple, vars common.Variables) (bool, error) {
	l, err := f.Left.Eval(tuple, vars)
	if err != nil {
		return false, err
	}
	if l {
		return true, nil
	}
	return f.Right.Eval(tuple, vars)
}

func (f *OrFormula) String() string {
	return "(" + f.Left.String() + " OR " + f.Right.String() + ")"
}

// PredicateFormula compares two expressions. A comparison with a Null
// operand is never true, regardless of the operator: three-valued
// logic collapsed to "not true".
type PredicateFormula struct {
	Op    CmpOp
	Left  Expression
	Right Expression
}

func (f *PredicateFormula) Eval(tuple common.Tuple, vars common.Variables) (bool, error) {
	lv, err := f.Left.Eval(tuple, vars)
	if err != nil {
		return false, err
	}
	rv, err := f.Right.Eval(tuple, vars)
	if err != nil {
		return false, err
	}
	if lv.IsNull() || rv.IsNull() {
		return false, nil
	}

	switch f.Op {
	case CmpEq:
		return lv.Equal(rv), nil
	case CmpNe:
		return !lv.Equal(rv), nil
	default:
		c, ok := lv.Compare(rv)
		if !ok {
			return false, errors.Errorf("cannot order %s against %s", lv.Kind(), rv.Kind())
		}
		switch f.Op {
		case CmpLt:
			return c < 0, nil
		case CmpLe:
			return c <= 0, nil
		case CmpGt:
			return c > 0, nil
		case CmpGe:
			return c >= 0, nil
		}
		return false, errors.Errorf("unknown comparison operator %d", int(f.Op))
	}
}

func (f *PredicateFormula) String() string {
	return f.Left.String() + " " + f.Op.String() + " " + f.Right.String()
}
