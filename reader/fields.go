package reader

import "strings"

// splitFields splits a raw log line into fields. Fields are separated
// by runs of whitespace; a double-quoted field keeps embedded spaces
// (quotes stripped, `\"` unescaped). When brackets is set, a `[...]`
// group is one field with the brackets stripped, which is how S3
// access logs carry their timestamp.
func splitFields(line string, brackets bool) []string {
	var fields []string
	i := 0
	n := len(line)

	for i < n {
		// Skip separators.
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		switch {
		case line[i] == '"':
			i++
			var sb strings.Builder
			for i < n && line[i] != '"' {
				if line[i] == '\\' && i+1 < n && line[i+1] == '"' {
					sb.WriteByte('"')
					i += 2
					continue
				}
				sb.WriteByte(line[i])
				i++
			}
			if i < n {
				i++ // closing quote
			}
			fields = append(fields, sb.String())
		case brackets && line[i] == '[':
			i++
			start := i
			for i < n && line[i] != ']' {
				i++
			}
			fields = append(fields, line[start:i])
			if i < n {
				i++ // closing bracket
			}
		default:
			start := i
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			fields = append(fields, line[start:i])
		}
	}

	return fields
}
