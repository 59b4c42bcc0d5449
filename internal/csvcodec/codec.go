// Package csvcodec implements the console's bulk import/export text
// format: comma-delimited, one header row, RFC-4180-like quoting.
//
// The contract differs from encoding/csv on purpose: blank lines are
// dropped (a quoted field cannot span lines), rows shorter than the
// header are padded with empty strings, and Encode emits no trailing
// newline. Decode always yields string values; re-parsing numbers and
// booleans is the caller's job.
package csvcodec

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Row is one decoded record, keyed by header name.
type Row map[string]string

// Encode serializes rows to CSV text. With a nil header slice the
// header set is the union of keys across all rows in sorted order (Go
// maps carry no insertion order). Empty input encodes to the empty
// string with no header line.
func Encode(rows []Row, headers []string) string {
	if len(rows) == 0 {
		return ""
	}
	if headers == nil {
		headers = Headers(rows)
	}

	lines := make([]string, 0, len(rows)+1)

	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = escape(h)
	}
	lines = append(lines, strings.Join(fields, ","))

	for _, row := range rows {
		for i, h := range headers {
			fields[i] = escape(row[h])
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

// Headers returns the sorted union of keys across rows.
func Headers(rows []Row) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)
	return headers
}

// Decode parses CSV text into rows. Lines split on \r?\n; empty lines
// are dropped; the first line names the headers. A row shorter than the
// header list yields empty strings for the missing trailing columns,
// and extra trailing values are ignored.
func Decode(text string) []Row {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}

	headers := parseLine(lines[0])
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := parseLine(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// escape quote-wraps a field iff it contains a comma, quote or newline,
// doubling internal quotes.
func escape(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}

// parseLine splits one line into fields, honoring quoted fields with
// embedded commas and doubled-quote escapes.
func parseLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(ch)
		}
	}
	fields = append(fields, field.String())
	return fields
}

// WriteDownload writes data as a file download. This is the only side
// effect in the package; no business logic lives here.
func WriteDownload(w http.ResponseWriter, filename string, data []byte, contentType string) {
	if contentType == "" {
		contentType = "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
