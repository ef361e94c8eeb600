package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staffCSV = "الاسم,القسم,المسمى الوظيفي,الجنسية,الجنس,سنوات الخبرة,الراتب الأساسي,بدل سكن,بدل نقل,المدير المباشر\n" +
	"أحمد,تقنية المعلومات,مطور,مصري,ذكر,4,8000,1500,600,خالد\n" +
	"سارة,الموارد البشرية,أخصائي,سعودي,أنثى,6,9000,1200,500,منى\n" +
	"عمر,تقنية المعلومات,مهندس,مصري,ذكر,12,15000,3000,800,خالد\n"

// resetFlags clears values and Changed state left by earlier invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCmd runs the root command with args and returns its stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(t, args...)
	require.NoError(t, err, "command %v failed", args)
	return out
}

// setupHome isolates config and snapshots in a temp HOME and writes the
// staff fixture there.
func setupHome(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "staff.csv")
	require.NoError(t, os.WriteFile(path, []byte(staffCSV), 0o644))
	return home, path
}

func TestCLI_AnalyzeSaveAndShowSnapshot(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "analyze", data, "--save")
	assert.Contains(t, out, "[EXECUTIVE SUMMARY]")
	assert.Contains(t, out, "[BY DEPARTMENT]")
	assert.Contains(t, out, "تقنية المعلومات")
	assert.Contains(t, out, "[ORG CHART]")

	_, after, ok := strings.Cut(out, "✓ Saved snapshot ")
	require.True(t, ok, "missing snapshot line in:\n%s", out)
	id := strings.TrimSpace(after)
	require.NotEmpty(t, id)

	list := runCmd(t, "snapshots", "list")
	assert.Contains(t, list, id)
	assert.Contains(t, list, "staff.csv (3 rows)")

	show := runCmd(t, "snapshots", "show", id[:8], "--format", "json")
	var snap struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Report struct {
			Rows int `json:"rows"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(show), &snap))
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, "staff.csv", snap.Source)
	assert.Equal(t, 3, snap.Report.Rows)

	_, err := execCmd(t, "snapshots", "show", "does-not-exist")
	assert.Error(t, err)
}

func TestCLI_AnalyzeJSONToFileWithOverrides(t *testing.T) {
	home, data := setupHome(t)
	outPath := filepath.Join(home, "report.json")

	out := runCmd(t, "analyze", data, "--format", "json", "-o", outPath, "--lang", "en", "--company", "Acme")
	assert.Contains(t, out, "✓ Wrote report to")

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var rep struct {
		Language string `json:"language"`
		Company  string `json:"company"`
		Rows     int    `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Equal(t, "en", rep.Language)
	assert.Equal(t, "Acme", rep.Company)
	assert.Equal(t, 3, rep.Rows)

	// overrides do not stick to the next invocation
	out = runCmd(t, "analyze", data, "--format", "json", "--no-hierarchy")
	assert.Contains(t, out, `"language": "ar"`)
	assert.NotContains(t, out, `"hierarchy"`)
}

func TestCLI_Hierarchy(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "hierarchy", data)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "- شركة الراشد"))
	assert.Contains(t, out, "    - تقنية المعلومات")
	assert.Contains(t, out, "خالد")
	assert.Contains(t, out, "عمر (مهندس)")

	out = runCmd(t, "hierarchy", data, "--format", "json")
	var node struct {
		Name     string `json:"name"`
		Children []any  `json:"children"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &node))
	assert.Equal(t, "شركة الراشد", node.Name)
	assert.Len(t, node.Children, 1)
}

func TestCLI_EmployeesFilterAndSort(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "employees", data, "--dept", "تقنية المعلومات", "--sort", "إجمالي الراتب", "--desc")
	assert.Contains(t, out, "| الاسم |")
	assert.NotContains(t, out, "سارة")
	omar := strings.Index(out, "عمر")
	ahmed := strings.Index(out, "أحمد")
	require.True(t, omar >= 0 && ahmed >= 0)
	assert.Less(t, omar, ahmed)
	assert.Contains(t, out, "18800")
	assert.Contains(t, out, "2 of 3 employees")

	out = runCmd(t, "employees", data, "--search", "منى", "--format", "json")
	var tbl employeeTable
	require.NoError(t, json.Unmarshal([]byte(out), &tbl))
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "سارة", tbl.Rows[0][0])
	assert.Equal(t, 1, tbl.Total)

	out = runCmd(t, "employees", data, "--list-depts")
	assert.Equal(t, "- الموارد البشرية\n- تقنية المعلومات\n", out)
}

func TestCLI_Columns(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "columns", data)
	assert.Contains(t, out, "✓ baseSalary: الراتب الأساسي")
	assert.Contains(t, out, "✓ manager: المدير المباشر")
	assert.Contains(t, out, "✗ totalComp: (not found)")
	assert.Contains(t, out, "- بدل سكن")
	assert.Contains(t, out, "- بدل نقل")
}

func TestCLI_ConfigSetShowAndDefaultDataset(t *testing.T) {
	home, data := setupHome(t)

	runCmd(t, "config", "set", "language", "en")
	runCmd(t, "config", "set", "default_dataset", data)
	runCmd(t, "config", "set", "delimiter", "comma")

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "language: en")
	assert.Contains(t, out, "default_dataset: "+data)
	assert.Contains(t, out, "snapshots_dir: "+filepath.Join(home, ".staffscope", "snapshots"))
	_, err := os.Stat(filepath.Join(home, ".staffscope", "config.yaml"))
	require.NoError(t, err)

	// default_dataset is used without an argument
	out = runCmd(t, "analyze", "--format", "json")
	assert.Contains(t, out, `"rows": 3`)
	assert.Contains(t, out, `"language": "en"`)

	for _, args := range [][]string{
		{"config", "set", "language", "fr"},
		{"config", "set", "sheet_index", "0"},
		{"config", "set", "low_ratio", "abc"},
		{"config", "set", "encoding", "latin-9"},
		{"config", "set", "no_such_key", "1"},
	} {
		_, err := execCmd(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home, _ := setupHome(t)

	_, err := execCmd(t, "analyze")
	assert.ErrorContains(t, err, "default_dataset")

	bad := filepath.Join(home, "staff.docx")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
	_, err = execCmd(t, "analyze", bad)
	assert.ErrorContains(t, err, "unsupported file format")

	_, err = execCmd(t, "analyze", filepath.Join(home, "staff.csv"), "--format", "xml")
	assert.ErrorContains(t, err, "unsupported --format")

	_, err = execCmd(t, "analyze", filepath.Join(home, "staff.csv"), "--delimiter", "#")
	assert.ErrorContains(t, err, "unsupported delimiter")
}

func TestParseDelimiter(t *testing.T) {
	cases := map[string]rune{"": 0, ",": ',', ";": ';', "tab": '\t', "\t": '\t', "pipe": '|', "|": '|'}
	for in, want := range cases {
		got, err := parseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDelimiter("::")
	assert.Error(t, err)
}
