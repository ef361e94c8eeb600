package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBatch_OutputDirCollisionSuffix(t *testing.T) {
	home, _ := setupHome(t)

	// Prepare two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	require.NoError(t, os.MkdirAll(d1, 0o755))
	require.NoError(t, os.MkdirAll(d2, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(d1, "staff.csv"), []byte(staffCSV), 0o644))
	second := "name;department;baseSalary;allowanceHousing\nLina;Sales;5000;300\n"
	require.NoError(t, os.WriteFile(filepath.Join(d2, "staff.csv"), []byte(second), 0o644))

	outDir := filepath.Join(home, "reports")
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "staff.csv"), "--output-dir", outDir, "--jobs", "2", "--quiet")

	b1, err := os.ReadFile(filepath.Join(outDir, "staff.report.md"))
	require.NoError(t, err, "missing first report")
	b2, err := os.ReadFile(filepath.Join(outDir, "staff__2.report.md"))
	require.NoError(t, err, "missing second report")

	// d1 sorts first, so the unsuffixed name belongs to it
	assert.Contains(t, string(b1), "تقنية المعلومات")
	assert.Contains(t, string(b2), "Sales")
	assert.NotContains(t, string(b2), "تقنية المعلومات")
}

func TestAnalyzeBatch_PrintsInInputOrder(t *testing.T) {
	home, _ := setupHome(t)

	a := filepath.Join(home, "b_first.csv")
	b := filepath.Join(home, "a_second.csv")
	require.NoError(t, os.WriteFile(a, []byte(staffCSV), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("name,department,baseSalary\nLina,Sales,5000\n"), 0o644))

	out := runCmd(t, "analyze-batch", a, b, a, "--jobs", "4", "--format", "json")
	first := strings.Index(out, "[1/2] "+a+" (3 rows)")
	second := strings.Index(out, "[2/2] "+b+" (1 rows)")
	require.True(t, first >= 0, out)
	require.True(t, second >= 0, out)
	assert.Less(t, first, second)
	assert.Equal(t, 2, strings.Count(out, `"allowanceColumns"`))
}

func TestAnalyzeBatch_Errors(t *testing.T) {
	home, _ := setupHome(t)

	_, err := execCmd(t, "analyze-batch", filepath.Join(home, "nothing-*.csv"))
	assert.ErrorContains(t, err, "no input files matched")

	broken := filepath.Join(home, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name": "x"}`), 0o644))
	_, err = execCmd(t, "analyze-batch", filepath.Join(home, "staff.csv"), broken)
	assert.Error(t, err)

	_, err = execCmd(t, "analyze-batch", filepath.Join(home, "staff.csv"), "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported --format")
}
