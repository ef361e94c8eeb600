package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// maxXLSRows caps rows read from a legacy sheet.
const maxXLSRows = 100000

type xlsLoader struct{}

func (xlsLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

func (xlsLoader) Load(data []byte, opt Options) ([]*record.Raw, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	n := wb.NumSheets()
	if n == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	names := make([]string, n)
	for i := 0; i < n; i++ {
		if s := wb.GetSheet(i); s != nil {
			names[i] = s.Name
		}
	}
	name, err := pickSheet(names, opt)
	if err != nil {
		return nil, err
	}
	var sheet *xls.WorkSheet
	for i, nm := range names {
		if nm == name {
			sheet = wb.GetSheet(i)
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet %q could not be read", name)
	}
	rows := sheetRows(sheet)
	log.Debug().Str("sheet", name).Int("rows", len(rows)).Msg("read xls sheet")
	return rowsToRecords(rows), nil
}

func sheetRows(sheet *xls.WorkSheet) [][]string {
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow) && i < maxXLSRows; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows
}
