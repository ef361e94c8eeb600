package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Raw is one source row: the source column names in file order and the
// value found under each. Values are strings, float64, json.Number or nil
// depending on the loader. A Raw is never mutated after construction.
type Raw struct {
	columns []string
	values  map[string]any
}

// NewRaw builds a Raw from an ordered column list and a value map. Columns
// that repeat are kept once; values missing from the map read as nil.
func NewRaw(columns []string, values map[string]any) *Raw {
	seen := make(map[string]struct{}, len(columns))
	cols := make([]string, 0, len(columns))
	vals := make(map[string]any, len(columns))
	for _, c := range columns {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cols = append(cols, c)
		vals[c] = values[c]
	}
	return &Raw{columns: cols, values: vals}
}

// Columns returns a copy of the column names in file order.
func (r *Raw) Columns() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Has reports whether col is one of the record's columns.
func (r *Raw) Has(col string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[col]
	return ok
}

// Get returns the raw value under col.
func (r *Raw) Get(col string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[col]
	return v, ok
}

// Text returns the value under col rendered as a string; missing and nil
// values read as "".
func (r *Raw) Text(col string) string {
	v, _ := r.Get(col)
	return textOf(v)
}

// Len is the number of columns.
func (r *Raw) Len() int {
	if r == nil {
		return 0
	}
	return len(r.columns)
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// isBlank treats nil and whitespace-only strings as empty.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	return strings.TrimSpace(textOf(v)) == ""
}
