package reader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vegasq/logq/common"
)

// Log formats write "-" for an absent field; every decoder maps it to
// Null.
const absentField = "-"

// DecodeFunc turns one raw field into a typed value.
type DecodeFunc func(field string) (common.Value, error)

func decodeString(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	return common.NewString(field), nil
}

func decodeInt(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return common.Null(), fmt.Errorf("invalid integer %q", field)
	}
	return common.NewInt(n), nil
}

func decodeFloat(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return common.Null(), fmt.Errorf("invalid float %q", field)
	}
	return common.NewFloat(f), nil
}

// decodeProcessingTime parses ELB/ALB processing times, which are -1
// when the load balancer never dispatched the request.
func decodeProcessingTime(field string) (common.Value, error) {
	if field == absentField || field == "-1" {
		return common.Null(), nil
	}
	return decodeFloat(field)
}

func decodeHost(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	return common.NewHost(field), nil
}

// decodeTimeRFC3339 parses ELB/ALB timestamps such as
// 2015-05-13T23:39:43.945958Z.
func decodeTimeRFC3339(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, field)
	if err != nil {
		return common.Null(), fmt.Errorf("invalid timestamp %q", field)
	}
	return common.NewDateTime(t), nil
}

// decodeTimeEpoch parses Squid native timestamps: epoch seconds with a
// millisecond fraction, e.g. 1515734740.494.
func decodeTimeEpoch(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return common.Null(), fmt.Errorf("invalid epoch timestamp %q", field)
	}
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return common.NewDateTime(time.Unix(sec, nsec).UTC()), nil
}

// decodeTimeS3 parses S3 access-log timestamps, already stripped of
// their brackets by the splitter: 06/Feb/2019:00:00:38 +0000.
func decodeTimeS3(field string) (common.Value, error) {
	if field == absentField {
		return common.Null(), nil
	}
	t, err := time.Parse("02/Jan/2006:15:04:05 -0700", field)
	if err != nil {
		return common.Null(), fmt.Errorf("invalid timestamp %q", field)
	}
	return common.NewDateTime(t), nil
}

// decodeRequest decomposes a raw request line ("GET http://h/ HTTP/1.1")
// into method, path and protocol. ELB writes "- - -" when the request
// never completed.
func decodeRequest(field string) (common.Value, error) {
	if field == absentField || field == "- - -" {
		return common.Null(), nil
	}
	parts := strings.SplitN(field, " ", 3)
	if len(parts) != 3 {
		return common.Null(), fmt.Errorf("invalid request line %q", field)
	}
	return common.NewHTTPRequest(common.HTTPRequest{
		Method:   parts[0],
		Path:     parts[1],
		Protocol: parts[2],
	}), nil
}
