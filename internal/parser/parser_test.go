package parser_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/KaramelBytes/staffscope-cli/internal/parser"
)

func TestLoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "staff.csv")
	content := "الاسم;الإدارة;الراتب الأساسي\nأحمد;المبيعات;8000\nسارة;المبيعات;9000\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	rows, err := parser.LoadFile(p, parser.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "9000", rows[1].Text("الراتب الأساسي"))
}

func TestLoadFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	_, err := parser.LoadFile(p, parser.Options{})
	assert.ErrorIs(t, err, parser.ErrUnsupported)
	assert.False(t, parser.Supported("notes.docx"))
	assert.True(t, parser.Supported("STAFF.XLSX"))
}

func TestDecode(t *testing.T) {
	legacy, err := charmap.Windows1256.NewEncoder().String("الاسم,الراتب\nعلي,5000\n")
	require.NoError(t, err)

	text, enc, err := parser.Decode([]byte(legacy), "")
	require.NoError(t, err)
	assert.Equal(t, parser.EncodingWindows1256, enc)
	assert.Equal(t, "الاسم,الراتب\nعلي,5000\n", text)

	text, enc, err = parser.Decode([]byte("\xEF\xBB\xBFa,b"), "auto")
	require.NoError(t, err)
	assert.Equal(t, parser.EncodingUTF8BOM, enc)
	assert.Equal(t, "a,b", text)

	text, enc, err = parser.Decode([]byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0}, "")
	require.NoError(t, err)
	assert.Equal(t, parser.EncodingUTF16LE, enc)
	assert.Equal(t, "a,b", text)

	_, _, err = parser.Decode([]byte("a"), "ebcdic")
	assert.ErrorIs(t, err, parser.ErrUnsupported)
}

func TestLoadBytesLegacyEncodingCSV(t *testing.T) {
	legacy, err := charmap.Windows1256.NewEncoder().String("الاسم,الراتب الأساسي\nعلي,5000\n")
	require.NoError(t, err)
	rows, err := parser.LoadBytes("old.csv", []byte(legacy), parser.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "علي", rows[0].Text("الاسم"))
}

func TestParseJSON(t *testing.T) {
	rows, err := parser.ParseJSON([]byte(`[{"name":"A","salary":1000.5,"dept":null},5,{"salary":"2,000","name":"B"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "salary", "dept"}, rows[0].Columns())
	assert.Equal(t, "1000.5", rows[0].Text("salary"))
	assert.Equal(t, "", rows[0].Text("dept"))
	assert.Equal(t, []string{"salary", "name"}, rows[1].Columns())

	_, err = parser.ParseJSON([]byte(`{"name":"A"}`))
	assert.ErrorIs(t, err, parser.ErrNotArray)

	rows, err = parser.ParseJSON([]byte("  "))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"ignored"}))
	_, err := f.NewSheet("الموظفين")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("الموظفين", "A1", &[]any{"الاسم", "بدل سكن", "بدل سكن"}))
	require.NoError(t, f.SetSheetRow("الموظفين", "A3", &[]any{"أحمد", 1500, 200}))

	dir := t.TempDir()
	p := filepath.Join(dir, "staff.xlsx")
	require.NoError(t, f.SaveAs(p))

	rows, err := parser.LoadFile(p, parser.Options{SheetName: "الموظفين"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"الاسم", "بدل سكن", "بدل سكن_1"}, rows[0].Columns())
	assert.Equal(t, "1500", rows[0].Text("بدل سكن"))
	assert.Equal(t, "200", rows[0].Text("بدل سكن_1"))

	rows, err = parser.LoadFile(p, parser.Options{SheetIndex: 1})
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = parser.LoadFile(p, parser.Options{SheetName: "missing"})
	assert.Error(t, err)
	_, err = parser.LoadFile(p, parser.Options{SheetIndex: 5})
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/staff.json":
			_, _ = w.Write([]byte(`[{"name":"A"}]`))
		case "/export":
			_, _ = w.Write([]byte("name|dept\nA|IT\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	rows, err := parser.Fetch(context.Background(), srv.URL+"/data/staff.json", parser.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = parser.Fetch(context.Background(), srv.URL+"/export", parser.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "IT", rows[0].Text("dept"))

	_, err = parser.Fetch(context.Background(), srv.URL+"/missing.csv", parser.Options{})
	assert.Error(t, err)

	assert.True(t, parser.IsURL("HTTPS://x/y.csv"))
	assert.False(t, parser.IsURL("./y.csv"))
}
