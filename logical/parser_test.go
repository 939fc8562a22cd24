package logical

import (
	"strings"
	"testing"

	"github.com/vegasq/logq/common"
	"github.com/vegasq/logq/query"
	"github.com/vegasq/logq/reader"
)

func mustParse(t *testing.T, q string) *query.SelectStatement {
	t.Helper()
	stmt, rest, err := query.Parse(q)
	if err != nil {
		t.Fatalf("query.Parse(%q) error = %v", q, err)
	}
	if rest != "" {
		t.Fatalf("query.Parse(%q) leftover = %q", q, rest)
	}
	return stmt
}

func TestParseQueryStarExpansion(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM elb")
	node, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	project, ok := node.(*Project)
	if !ok {
		t.Fatalf("root = %T, want *Project", node)
	}
	want := reader.ELB.ColumnNames()
	if len(project.Columns) != len(want) {
		t.Fatalf("projected %d columns, want %d", len(project.Columns), len(want))
	}
	for i := range want {
		if project.Columns[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, project.Columns[i], want[i])
		}
		if project.Indexes[i] != i {
			t.Errorf("index %d = %d, want %d", i, project.Indexes[i], i)
		}
	}
	if _, ok := project.Child.(*Scan); !ok {
		t.Errorf("child = %T, want *Scan", project.Child)
	}
}

func TestParseQueryExplicitProjection(t *testing.T) {
	stmt := mustParse(t, "SELECT sent_bytes, timestamp FROM elb")
	node, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	project := node.(*Project)
	if project.Columns[0] != "sent_bytes" || project.Columns[1] != "timestamp" {
		t.Errorf("columns = %v, want requested order preserved", project.Columns)
	}
	if project.Indexes[0] != 10 || project.Indexes[1] != 0 {
		t.Errorf("indexes = %v, want [10 0]", project.Indexes)
	}
}

func TestParseQueryUnknownColumn(t *testing.T) {
	stmt := mustParse(t, "SELECT foo FROM elb")
	_, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
	if err == nil {
		t.Fatal("ParseQuery() should fail")
	}
	colErr, ok := err.(*UnknownColumnError)
	if !ok {
		t.Fatalf("error type = %T, want *UnknownColumnError", err)
	}
	if colErr.Column != "foo" {
		t.Errorf("column = %q, want foo", colErr.Column)
	}
	if !strings.Contains(err.Error(), "foo") || !strings.Contains(err.Error(), "elb_status_code") {
		t.Errorf("error should name the column and the known columns: %s", err)
	}
}

func TestParseQueryTreeShape(t *testing.T) {
	stmt := mustParse(t, "SELECT timestamp FROM elb WHERE elb_status_code = 500 LIMIT 10")
	node, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	// Fixed shape: Limit > Project > Filter > Scan.
	limit, ok := node.(*Limit)
	if !ok {
		t.Fatalf("root = %T, want *Limit", node)
	}
	if limit.N != 10 {
		t.Errorf("limit = %d, want 10", limit.N)
	}
	project, ok := limit.Child.(*Project)
	if !ok {
		t.Fatalf("limit child = %T, want *Project", limit.Child)
	}
	filter, ok := project.Child.(*Filter)
	if !ok {
		t.Fatalf("project child = %T, want *Filter", project.Child)
	}
	if _, ok := filter.Child.(*Scan); !ok {
		t.Fatalf("filter child = %T, want *Scan", filter.Child)
	}
}

func TestPlanFormulaTypeChecks(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{
			name:  "int literal for int column",
			query: "SELECT * FROM elb WHERE elb_status_code = 200",
		},
		{
			name:  "int literal widens for float column",
			query: "SELECT * FROM elb WHERE backend_processing_time < 1",
		},
		{
			name:  "string literal for string column",
			query: "SELECT * FROM elb WHERE elbname = 'my-loadbalancer'",
		},
		{
			name:  "string literal for host column",
			query: "SELECT * FROM elb WHERE client_and_port = '192.168.131.39:2817'",
		},
		{
			name:  "timestamp literal for datetime column",
			query: "SELECT * FROM elb WHERE timestamp > '2015-05-13T00:00:00Z'",
		},
		{
			name:  "request literal for request column",
			query: "SELECT * FROM elb WHERE request = 'GET http://www.example.com:80/ HTTP/1.1'",
		},
		{
			name:  "null literal coerces to any column",
			query: "SELECT * FROM elb WHERE ssl_cipher = null",
		},
		{
			name:  "literal on the left",
			query: "SELECT * FROM elb WHERE 200 = elb_status_code",
		},
		{
			name:  "columns of the same kind",
			query: "SELECT * FROM elb WHERE elb_status_code != backend_status_code",
		},
		{
			name:    "string literal for int column",
			query:   "SELECT * FROM elb WHERE elb_status_code = 'OK'",
			wantErr: `cannot compare column "elb_status_code" (Int) with literal "OK"`,
		},
		{
			name:    "float literal for int column",
			query:   "SELECT * FROM elb WHERE elb_status_code = 2.5",
			wantErr: "cannot compare",
		},
		{
			name:    "unparsable timestamp literal",
			query:   "SELECT * FROM elb WHERE timestamp > 'yesterday'",
			wantErr: `cannot compare column "timestamp" (DateTime)`,
		},
		{
			name:    "columns of different kinds",
			query:   "SELECT * FROM elb WHERE elb_status_code = elbname",
			wantErr: "cannot compare column",
		},
		{
			name:    "literal only predicate",
			query:   "SELECT * FROM elb WHERE 1 = 1",
			wantErr: "must reference at least one column",
		},
		{
			name:    "unknown column in filter",
			query:   "SELECT * FROM elb WHERE bogus = 1",
			wantErr: `unknown column "bogus"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := mustParse(t, tt.query)
			_, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ParseQuery() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ParseQuery() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseQueryUnknownTable(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM bogus")
	_, err := ParseQuery(stmt, common.NewReaderSource(strings.NewReader("")))
	if err == nil {
		t.Fatal("ParseQuery() should fail")
	}
	if _, ok := err.(*UnknownTableError); !ok {
		t.Errorf("error type = %T, want *UnknownTableError", err)
	}
}
