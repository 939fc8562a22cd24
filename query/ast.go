package query

// SelectStatement is the parsed form of one query:
// SELECT <cols>|* FROM <table> [WHERE <expr>] [LIMIT <n>].
type SelectStatement struct {
	TableName  string
	Projection []string // nil when Star is set
	Star       bool
	Where      Expr // nil when no WHERE clause
	Limit      *int64
}

// Expr is a node of the WHERE expression tree.
type Expr interface {
	exprNode()
}

// ColumnExpr references a schema column by name.
type ColumnExpr struct {
	Name string
}

func (e *ColumnExpr) exprNode() {}

// LiteralExpr is an untyped literal; the logical planner coerces it to
// the referenced column's kind.
type LiteralExpr struct {
	// Kind: "int", "float", "string", "bool", "null"
	Kind  string
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func (e *LiteralExpr) exprNode() {}

// BinaryExpr is a comparison or boolean combinator: a op b.
type BinaryExpr struct {
	Op    string // =, !=, <, <=, >, >=, and, or
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) exprNode() {}
