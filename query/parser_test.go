package query

import (
	"strings"
	"testing"
)

func TestParser_SimpleQuery(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantTable string
		wantStar  bool
		wantCols  []string
		wantErr   bool
	}{
		{
			name:      "star projection",
			query:     "SELECT * FROM elb",
			wantTable: "elb",
			wantStar:  true,
		},
		{
			name:      "column list",
			query:     "SELECT timestamp, sent_bytes FROM elb",
			wantTable: "elb",
			wantCols:  []string{"timestamp", "sent_bytes"},
		},
		{
			name:      "lowercase keywords",
			query:     "select * from s3",
			wantTable: "s3",
			wantStar:  true,
		},
		{
			name:    "missing FROM",
			query:   "SELECT * elb",
			wantErr: true,
		},
		{
			name:    "missing projection",
			query:   "SELECT FROM elb",
			wantErr: true,
		},
		{
			name:    "missing table",
			query:   "SELECT * FROM",
			wantErr: true,
		},
		{
			name:    "not a select",
			query:   "DELETE FROM elb",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, _, err := Parse(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if stmt.TableName != tt.wantTable {
				t.Errorf("table = %q, want %q", stmt.TableName, tt.wantTable)
			}
			if stmt.Star != tt.wantStar {
				t.Errorf("star = %v, want %v", stmt.Star, tt.wantStar)
			}
			if len(stmt.Projection) != len(tt.wantCols) {
				t.Fatalf("projection = %v, want %v", stmt.Projection, tt.wantCols)
			}
			for i, c := range tt.wantCols {
				if stmt.Projection[i] != c {
					t.Errorf("projection[%d] = %q, want %q", i, stmt.Projection[i], c)
				}
			}
		})
	}
}

func TestParser_Limit(t *testing.T) {
	stmt, rest, err := Parse("SELECT * FROM elb LIMIT 10")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rest != "" {
		t.Errorf("rest = %q, want empty", rest)
	}
	if stmt.Limit == nil || *stmt.Limit != 10 {
		t.Errorf("limit = %v, want 10", stmt.Limit)
	}
}

func TestParser_LimitRequiresCount(t *testing.T) {
	_, _, err := Parse("SELECT * FROM elb LIMIT x")
	if err == nil {
		t.Fatal("Parse() should fail on LIMIT without a count")
	}
}

func TestParser_Where(t *testing.T) {
	stmt, _, err := Parse("SELECT * FROM elb WHERE elb_status_code = 200")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	cmp, ok := stmt.Where.(*BinaryExpr)
	if !ok || cmp.Op != "=" {
		t.Fatalf("where = %#v, want '=' comparison", stmt.Where)
	}
	col, ok := cmp.Left.(*ColumnExpr)
	if !ok || col.Name != "elb_status_code" {
		t.Errorf("left = %#v, want column elb_status_code", cmp.Left)
	}
	lit, ok := cmp.Right.(*LiteralExpr)
	if !ok || lit.Kind != "int" || lit.Int != 200 {
		t.Errorf("right = %#v, want int literal 200", cmp.Right)
	}
}

// Non-ASCII content in a string literal survives the parse byte for
// byte; user agents carry arbitrary UTF-8.
func TestParser_UTF8StringLiteral(t *testing.T) {
	stmt, rest, err := Parse("SELECT * FROM elb WHERE user_agent = 'héllo'")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if rest != "" {
		t.Fatalf("rest = %q, want empty", rest)
	}
	cmp := stmt.Where.(*BinaryExpr)
	lit, ok := cmp.Right.(*LiteralExpr)
	if !ok || lit.Kind != "string" {
		t.Fatalf("right = %#v, want string literal", cmp.Right)
	}
	if lit.Str != "héllo" {
		t.Errorf("literal = %q, want %q", lit.Str, "héllo")
	}
}

// AND binds tighter than OR: a OR b AND c parses as a OR (b AND c).
func TestParser_Precedence(t *testing.T) {
	stmt, _, err := Parse("SELECT * FROM elb WHERE a = 1 OR b = 2 AND c = 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	or, ok := stmt.Where.(*BinaryExpr)
	if !ok || or.Op != "or" {
		t.Fatalf("root = %#v, want OR", stmt.Where)
	}
	and, ok := or.Right.(*BinaryExpr)
	if !ok || and.Op != "and" {
		t.Fatalf("right of OR = %#v, want AND", or.Right)
	}
}

func TestParser_Parens(t *testing.T) {
	stmt, _, err := Parse("SELECT * FROM elb WHERE (a = 1 OR b = 2) AND c = 3")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	and, ok := stmt.Where.(*BinaryExpr)
	if !ok || and.Op != "and" {
		t.Fatalf("root = %#v, want AND", stmt.Where)
	}
	or, ok := and.Left.(*BinaryExpr)
	if !ok || or.Op != "or" {
		t.Fatalf("left of AND = %#v, want OR", and.Left)
	}
}

func TestParser_Leftover(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantRest string
	}{
		{
			name:     "fully consumed",
			query:    "SELECT * FROM elb",
			wantRest: "",
		},
		{
			name:     "trailing garbage after where",
			query:    "SELECT * FROM s3 WHERE http_status = 200 extra_garbage",
			wantRest: "extra_garbage",
		},
		{
			name:     "trailing garbage after limit",
			query:    "SELECT * FROM elb LIMIT 5 ; DROP TABLE elb",
			wantRest: "; DROP TABLE elb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rest, err := Parse(tt.query)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

// The parser reports every alternative it attempted, not just the
// first failing branch.
func TestParser_DiagnosticsListAlternatives(t *testing.T) {
	_, _, err := Parse("SELECT FROM elb")
	if err == nil {
		t.Fatal("Parse() should fail")
	}
	synErr, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("error type = %T, want *SyntaxError", err)
	}
	msg := synErr.Error()
	if !strings.Contains(msg, "'*'") {
		t.Errorf("diagnostics missing '*' alternative: %s", msg)
	}
	if !strings.Contains(msg, "column identifier") {
		t.Errorf("diagnostics missing column alternative: %s", msg)
	}
}

func TestParser_OperandDiagnostics(t *testing.T) {
	_, _, err := Parse("SELECT * FROM elb WHERE = 200")
	if err == nil {
		t.Fatal("Parse() should fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "column identifier") || !strings.Contains(msg, "literal value") {
		t.Errorf("diagnostics should list operand alternatives: %s", msg)
	}
	if !strings.Contains(msg, "'('") {
		t.Errorf("diagnostics should mention the group alternative: %s", msg)
	}
}

func TestParser_ComparisonRequiresOperator(t *testing.T) {
	_, _, err := Parse("SELECT * FROM elb WHERE elb_status_code")
	if err == nil {
		t.Fatal("Parse() should fail on a bare column in WHERE")
	}
	if !strings.Contains(err.Error(), "comparison operator") {
		t.Errorf("diagnostics should mention the comparison operator: %s", err)
	}
}
