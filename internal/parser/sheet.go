package parser

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// rowsToRecords maps spreadsheet rows onto the first non-empty row as
// header. Fully empty rows are skipped and repeated header names get a
// numeric suffix so no column is lost.
func rowsToRecords(rows [][]string) []*record.Raw {
	start := -1
	for i, r := range rows {
		if !emptyRow(r) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	header := uniqueHeader(rows[start])
	out := make([]*record.Raw, 0, len(rows)-start-1)
	for _, r := range rows[start+1:] {
		if emptyRow(r) {
			continue
		}
		vals := make(map[string]any, len(header))
		for i, h := range header {
			v := ""
			if i < len(r) {
				v = strings.TrimSpace(r[i])
			}
			vals[h] = v
		}
		out = append(out, record.NewRaw(header, vals))
	}
	return out
}

func uniqueHeader(row []string) []string {
	seen := map[string]int{}
	out := make([]string, len(row))
	for i, h := range row {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 0
		}
		out[i] = h
	}
	return out
}

func emptyRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
