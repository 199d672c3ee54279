package importer

// csv.go handles the lexical side of an import: byte sanitizing, CSV
// parsing, and cell cleanup. The engine assumes the row set fits in
// memory; preview needs two passes over the rows.

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"
)

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so encoding/csv never chokes on Excel exports
// saved in legacy encodings.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

// parseCSV parses the whole file. Ragged rows are tolerated; the row
// mapper skips out-of-range column indices instead of failing the row.
func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// CleanCell normalizes a raw CSV cell:
// - Trims whitespace and BOM artifacts
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// nameKey derives the case-insensitive natural key used for company
// name matching throughout preview and execution.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
