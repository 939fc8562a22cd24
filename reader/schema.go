// Package reader knows the shape of each supported log format: its
// ordered column schema, how a raw line splits into fields, how each
// field decodes into a typed value, and how to open the underlying
// data source as a line stream.
package reader

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vegasq/logq/common"
)

// Column describes one field of a log format.
type Column struct {
	Name   string
	Kind   common.Kind
	Decode DecodeFunc
}

// Schema is the ordered column layout of one log format. The four
// schemas are process-wide constants, safe to share across queries.
type Schema struct {
	Name     string
	Columns  []Column
	brackets bool // the format groups fields with [...] (s3 timestamps)
	trailing bool // newer log revisions append fields past the schema
}

// ColumnNames returns the declared column order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Lookup resolves a column by name.
func (s *Schema) Lookup(name string) (int, Column, bool) {
	for i, c := range s.Columns {
		if c.Name == name {
			return i, c, true
		}
	}
	return -1, Column{}, false
}

// DecodeLine decodes one raw log line into a tuple, one value per
// schema column. The field count must match the schema exactly; only
// formats whose newer revisions append columns (ALB) tolerate trailing
// extras. A surplus field elsewhere usually means the wrong format was
// chosen, which must surface as an error, not a silent partial decode.
func (s *Schema) DecodeLine(line string) (common.Tuple, error) {
	fields := splitFields(line, s.brackets)
	if len(fields) < len(s.Columns) {
		return nil, fmt.Errorf("%s: expected at least %d fields, got %d", s.Name, len(s.Columns), len(fields))
	}
	if len(fields) > len(s.Columns) && !s.trailing {
		return nil, fmt.Errorf("%s: expected %d fields, got %d", s.Name, len(s.Columns), len(fields))
	}

	tuple := make(common.Tuple, len(s.Columns))
	for i, col := range s.Columns {
		v, err := col.Decode(fields[i])
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name)
		}
		tuple[i] = v
	}
	return tuple, nil
}

// Schemas maps each supported table identifier to its schema.
var Schemas = map[string]*Schema{
	"elb":   ELB,
	"alb":   ALB,
	"squid": Squid,
	"s3":    S3,
}

// ELB is the classic Elastic Load Balancer access-log layout.
var ELB = &Schema{
	Name: "elb",
	Columns: []Column{
		{Name: "timestamp", Kind: common.KindDateTime, Decode: decodeTimeRFC3339},
		{Name: "elbname", Kind: common.KindString, Decode: decodeString},
		{Name: "client_and_port", Kind: common.KindHost, Decode: decodeHost},
		{Name: "backend_and_port", Kind: common.KindHost, Decode: decodeHost},
		{Name: "request_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "backend_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "response_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "elb_status_code", Kind: common.KindInt, Decode: decodeInt},
		{Name: "backend_status_code", Kind: common.KindInt, Decode: decodeInt},
		{Name: "received_bytes", Kind: common.KindInt, Decode: decodeInt},
		{Name: "sent_bytes", Kind: common.KindInt, Decode: decodeInt},
		{Name: "request", Kind: common.KindHTTPRequest, Decode: decodeRequest},
		{Name: "user_agent", Kind: common.KindString, Decode: decodeString},
		{Name: "ssl_cipher", Kind: common.KindString, Decode: decodeString},
		{Name: "ssl_protocol", Kind: common.KindString, Decode: decodeString},
	},
}

// ALB is the Application Load Balancer access-log layout.
var ALB = &Schema{
	Name:     "alb",
	trailing: true,
	Columns: []Column{
		{Name: "type", Kind: common.KindString, Decode: decodeString},
		{Name: "timestamp", Kind: common.KindDateTime, Decode: decodeTimeRFC3339},
		{Name: "elbname", Kind: common.KindString, Decode: decodeString},
		{Name: "client_and_port", Kind: common.KindHost, Decode: decodeHost},
		{Name: "target_and_port", Kind: common.KindHost, Decode: decodeHost},
		{Name: "request_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "target_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "response_processing_time", Kind: common.KindFloat, Decode: decodeProcessingTime},
		{Name: "elb_status_code", Kind: common.KindInt, Decode: decodeInt},
		{Name: "target_status_code", Kind: common.KindInt, Decode: decodeInt},
		{Name: "received_bytes", Kind: common.KindInt, Decode: decodeInt},
		{Name: "sent_bytes", Kind: common.KindInt, Decode: decodeInt},
		{Name: "request", Kind: common.KindHTTPRequest, Decode: decodeRequest},
		{Name: "user_agent", Kind: common.KindString, Decode: decodeString},
		{Name: "ssl_cipher", Kind: common.KindString, Decode: decodeString},
		{Name: "ssl_protocol", Kind: common.KindString, Decode: decodeString},
		{Name: "target_group_arn", Kind: common.KindString, Decode: decodeString},
		{Name: "trace_id", Kind: common.KindString, Decode: decodeString},
		{Name: "domain_name", Kind: common.KindString, Decode: decodeString},
		{Name: "chosen_cert_arn", Kind: common.KindString, Decode: decodeString},
		{Name: "matched_rule_priority", Kind: common.KindInt, Decode: decodeInt},
		{Name: "request_creation_time", Kind: common.KindDateTime, Decode: decodeTimeRFC3339},
		{Name: "actions_executed", Kind: common.KindString, Decode: decodeString},
		{Name: "redirect_url", Kind: common.KindString, Decode: decodeString},
	},
}

// Squid is the Squid proxy native access-log layout.
var Squid = &Schema{
	Name: "squid",
	Columns: []Column{
		{Name: "timestamp", Kind: common.KindDateTime, Decode: decodeTimeEpoch},
		{Name: "duration", Kind: common.KindInt, Decode: decodeInt},
		{Name: "client_address", Kind: common.KindHost, Decode: decodeHost},
		{Name: "result_code", Kind: common.KindString, Decode: decodeString},
		{Name: "size", Kind: common.KindInt, Decode: decodeInt},
		{Name: "method", Kind: common.KindString, Decode: decodeString},
		{Name: "url", Kind: common.KindString, Decode: decodeString},
		{Name: "user", Kind: common.KindString, Decode: decodeString},
		{Name: "hierarchy_code", Kind: common.KindString, Decode: decodeString},
		{Name: "content_type", Kind: common.KindString, Decode: decodeString},
	},
}

// S3 is the S3 server access-log layout.
var S3 = &Schema{
	Name:     "s3",
	brackets: true,
	Columns: []Column{
		{Name: "bucket_owner", Kind: common.KindString, Decode: decodeString},
		{Name: "bucket", Kind: common.KindString, Decode: decodeString},
		{Name: "time", Kind: common.KindDateTime, Decode: decodeTimeS3},
		{Name: "remote_ip", Kind: common.KindHost, Decode: decodeHost},
		{Name: "requester", Kind: common.KindString, Decode: decodeString},
		{Name: "request_id", Kind: common.KindString, Decode: decodeString},
		{Name: "operation", Kind: common.KindString, Decode: decodeString},
		{Name: "key", Kind: common.KindString, Decode: decodeString},
		{Name: "request_uri", Kind: common.KindHTTPRequest, Decode: decodeRequest},
		{Name: "http_status", Kind: common.KindInt, Decode: decodeInt},
		{Name: "error_code", Kind: common.KindString, Decode: decodeString},
		{Name: "bytes_sent", Kind: common.KindInt, Decode: decodeInt},
		{Name: "object_size", Kind: common.KindInt, Decode: decodeInt},
		{Name: "total_time", Kind: common.KindInt, Decode: decodeInt},
		{Name: "turn_around_time", Kind: common.KindInt, Decode: decodeInt},
		{Name: "referrer", Kind: common.KindString, Decode: decodeString},
		{Name: "user_agent", Kind: common.KindString, Decode: decodeString},
		{Name: "version_id", Kind: common.KindString, Decode: decodeString},
	},
}
