package record

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(cols []string, vals ...any) *Raw {
	m := make(map[string]any, len(cols))
	for i, c := range cols {
		if i < len(vals) {
			m[c] = vals[i]
		}
	}
	return NewRaw(cols, m)
}

func TestToNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{42.5, 42.5},
		{int64(7), 7},
		{"1,234.50 ريال", 1234.5},
		{"SAR 8,000", 8000},
		{"-350", -350},
		{"", 0},
		{"abc", 0},
		{"1.2.3", 0},
		{"--5", 0},
		{".5", 0.5},
		{json.Number("12.25"), 12.25},
		{true, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{map[string]any{"a": 1}, 1},
		{"٨٠٠٠", 0},
	}
	for _, c := range cases {
		got := ToNumber(c.in)
		assert.Equalf(t, c.want, got, "ToNumber(%#v)", c.in)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0))
	}
}

func TestResolve(t *testing.T) {
	cols := []string{"الاسم", "name", "القسم"}
	col, ok := Resolve(cols, NameKeys)
	assert.True(t, ok)
	assert.Equal(t, "name", col, "priority order wins over column order")

	col, ok = Resolve(cols, GenderKeys)
	assert.False(t, ok)
	assert.Equal(t, "gender", col, "placeholder is the first candidate")

	col, ok = Resolve(cols, nil)
	assert.False(t, ok)
	assert.Empty(t, col)
}

func TestFirstFilled(t *testing.T) {
	r := raw([]string{"department", "القسم", "الادارة"}, "", "  ", "المالية")
	col, ok := FirstFilled(r, HierarchyDepartmentKeys)
	require.True(t, ok)
	assert.Equal(t, "الادارة", col)

	_, ok = FirstFilled(raw([]string{"x"}, "1"), HierarchyDepartmentKeys)
	assert.False(t, ok)
}

func TestDiscoverAllowanceColumns(t *testing.T) {
	cols := []string{"name", "allowanceHousing", "بدل سكن", "Transport Allowance", "أخرى", "baseSalary", "بدل مواصلات", "allowanceTotalX"}
	got := DiscoverAllowanceColumns(cols, "baseSalary", "allowanceTotalX")
	assert.Equal(t, []string{"allowanceHousing", "بدل سكن", "Transport Allowance", "بدل مواصلات", "أخرى"}, got)

	// allowlist entries absent from the file are not reported
	assert.Empty(t, DiscoverAllowanceColumns([]string{"name", "salary"}))
}

func TestDiscoverAllowanceColumnsNeverIncludesBaseOrTotal(t *testing.T) {
	cols := []string{"allowanceBase", "بدل ادارة", "allowance total"}
	got := DiscoverAllowanceColumns(cols, "allowanceBase", "allowance total")
	assert.Equal(t, []string{"بدل ادارة"}, got)
}

func TestNormalizeScenario(t *testing.T) {
	cols := []string{"name", "baseSalary", "allowanceHousing"}
	ds := Normalize([]*Raw{
		raw(cols, "Ahmed", "8000", "1500"),
		raw(cols, "Sara", "9000", "1200"),
	})
	require.Len(t, ds.Employees, 2)
	assert.Equal(t, 9500.0, ds.Employees[0].TotalComp)
	assert.Equal(t, 10200.0, ds.Employees[1].TotalComp)
	assert.Equal(t, []string{"allowanceHousing"}, ds.AllowanceColumns)
	assert.Empty(t, ds.Fields.Total)
	assert.False(t, ds.Fields.Found["department"])
	assert.Equal(t, "", ds.Employees[0].Department)
	assert.Same(t, ds.Employees[1].Raw(), ds.Employees[1].Raw())
	assert.Equal(t, "Sara", ds.Employees[1].Raw().Text("name"))
}

func TestNormalizeExplicitTotal(t *testing.T) {
	cols := []string{"الاسم", "الراتب الأساسي", "بدل سكن", "بدل مواصلات", "الراتب الاجمالي"}
	ds := Normalize([]*Raw{
		raw(cols, "علي", "5,000", "1000", "500", "7000"),
		raw(cols, "منى", "4000", "800", "", "0"),
		raw(cols, "سالم", "bad", "x", nil, ""),
	})
	require.Len(t, ds.Employees, 3)
	assert.Equal(t, "الراتب الاجمالي", ds.Fields.Total)
	assert.NotContains(t, ds.AllowanceColumns, "الراتب الاجمالي")
	assert.NotContains(t, ds.AllowanceColumns, "الراتب الأساسي")

	e := ds.Employees[0]
	assert.Equal(t, 7000.0, e.TotalComp)
	assert.True(t, e.TotalFromColumn)
	assert.Equal(t, 1500.0, e.AllowanceTotal)

	// zero explicit total falls back to the computed sum
	e = ds.Employees[1]
	assert.False(t, e.TotalFromColumn)
	assert.Equal(t, e.BaseSalary+e.AllowanceTotal, e.TotalComp)
	assert.Equal(t, 4800.0, e.TotalComp)

	e = ds.Employees[2]
	assert.Equal(t, 0.0, e.TotalComp)
	assert.Equal(t, "سالم", e.Name)
}

func TestNormalizeEmptyAndHeterogeneous(t *testing.T) {
	ds := Normalize(nil)
	assert.Empty(t, ds.Employees)
	assert.Empty(t, ds.Columns)

	ds = Normalize([]*Raw{
		raw([]string{"name"}, "A"),
		raw([]string{"name", "gender"}, "B", "F"),
		nil,
	})
	require.Len(t, ds.Employees, 3, "one employee per input record")
	assert.Equal(t, []string{"name", "gender"}, ds.Columns)
	assert.Equal(t, "F", ds.Employees[1].Gender)
	assert.Equal(t, "", ds.Employees[2].Name)
}

func TestRawIsImmutable(t *testing.T) {
	r := raw([]string{"a", "b", "a"}, "1", "2")
	cols := r.Columns()
	cols[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, r.Columns())
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "8000", raw([]string{"x"}, 8000.0).Text("x"))
}

func TestQuery(t *testing.T) {
	cols := []string{"name", "department", "jobTitle", "baseSalary", "allowanceHousing"}
	ds := Normalize([]*Raw{
		raw(cols, "Omar", "Sales", "Rep", "11000", "2000"),
		raw(cols, "Huda", "IT", "QA", "9500", "1500"),
		raw(cols, "Ahmed", "IT", "Dev", "8000", "1500"),
	})

	assert.Equal(t, append(cols, TotalAllowancesColumn, TotalSalaryColumn), ds.DisplayColumns())

	got := Query{Department: "IT", SortColumn: TotalSalaryColumn}.Apply(ds, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "Ahmed", got[0].Name)
	assert.Equal(t, "9500", got[0].Cell(TotalSalaryColumn))

	got = Query{Search: "omar"}.Apply(ds, nil)
	require.Len(t, got, 1)

	got = Query{SortColumn: "baseSalary", Desc: true}.Apply(ds, nil)
	assert.Equal(t, []string{"Omar", "Huda", "Ahmed"}, []string{got[0].Name, got[1].Name, got[2].Name})

	got = Query{SortColumn: "name"}.Apply(ds, nil)
	assert.Equal(t, []string{"Ahmed", "Huda", "Omar"}, []string{got[0].Name, got[1].Name, got[2].Name})

	assert.Equal(t, []string{"IT", "Sales"}, ds.DistinctDepartments("غير محدد", nil))
	assert.Len(t, ds.Employees, 3, "query does not mutate the dataset")
}
