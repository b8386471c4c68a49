package sheet

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// The feed serves the Google Visualization tabular envelope:
//
//	{ "table": { "rows": [ { "c": [ {"v": ...}, ... ] }, ... ] } }
//
// Every consumer must skip the first row, which is always a header.

type envelope struct {
	Table *tableWire `json:"table"`
}

type tableWire struct {
	Rows []rowWire `json:"rows"`
}

type rowWire struct {
	C []*cellWire `json:"c"`
}

type cellWire struct {
	V any `json:"v"`
}

// Table is a decoded sheet, header row included.
type Table struct {
	Rows []Row
}

// Row wraps one row's cells with index-safe accessors; a missing or null
// cell reads as the zero value.
type Row struct {
	cells []*cellWire
}

// Str returns the cell at index i as a trimmed string, or "" when the cell
// is absent or null.
func (r Row) Str(i int) string {
	if i < 0 || i >= len(r.cells) || r.cells[i] == nil || r.cells[i].V == nil {
		return ""
	}
	switch v := r.cells[i].V.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// JSON numbers; render integral values without a decimal point.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// Int returns the cell at index i as an integer, or 0 when it cannot be
// read as one.
func (r Row) Int(i int) int {
	if i < 0 || i >= len(r.cells) || r.cells[i] == nil || r.cells[i].V == nil {
		return 0
	}
	switch v := r.cells[i].V.(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// decodeTable parses a feed response body. A body without table.rows is
// malformed and fatal for the fetch.
func decodeTable(body []byte) (*Table, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if env.Table == nil || env.Table.Rows == nil {
		return nil, ErrMalformedTable
	}

	rows := make([]Row, 0, len(env.Table.Rows))
	for _, rw := range env.Table.Rows {
		rows = append(rows, Row{cells: rw.C})
	}
	return &Table{Rows: rows}, nil
}
