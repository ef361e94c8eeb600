package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ToNumber salvages a finite number from any cell value. It never fails:
// nil, unparsable and non-finite inputs all yield 0.
//
// Strings keep only ASCII digits, '.' and '-' before parsing, so currency
// symbols, thousands separators and units are dropped ("1,234.50 SAR" is
// 1234.5). A string with nothing left after stripping is 0.
func ToNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		f = parseStripped(string(t))
	case string:
		f = parseStripped(t)
	default:
		f = parseStripped(textOf(t))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseStripped(s string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f
}
