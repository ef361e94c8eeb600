package record

import (
	"sort"
	"strconv"
	"strings"
)

// Synthesized display columns appended when a file lacks its own.
const (
	TotalAllowancesColumn = "إجمالي البدلات"
	TotalSalaryColumn     = "إجمالي الراتب"
)

var (
	allowanceTotalSynonyms = []string{"إجمالي البدلات", "allowanceTotal", "Total Allowances"}
	totalSalarySynonyms    = []string{"الراتب الاجمالي", "إجمالي الراتب", "totalSalary", "totalComp"}
)

// DisplayColumns returns the dataset's columns plus the synthesized total
// columns for any the file does not already carry.
func (ds *Dataset) DisplayColumns() []string {
	cols := append([]string(nil), ds.Columns...)
	if !containsAny(ds.Columns, allowanceTotalSynonyms) {
		cols = append(cols, TotalAllowancesColumn)
	}
	if !containsAny(ds.Columns, totalSalarySynonyms) {
		cols = append(cols, TotalSalaryColumn)
	}
	return cols
}

// Cell returns what the employee table shows under col: the source value
// when the record has that column, otherwise a computed field.
func (e Employee) Cell(col string) string {
	if e.raw.Has(col) {
		return e.raw.Text(col)
	}
	switch col {
	case TotalAllowancesColumn, "allowanceTotal":
		return formatNumber(e.AllowanceTotal)
	case TotalSalaryColumn, "totalComp":
		return formatNumber(e.TotalComp)
	case "baseSalary":
		return formatNumber(e.BaseSalary)
	case "experienceYears":
		return formatNumber(e.ExperienceYears)
	case "employeeId":
		return e.EmployeeID
	case "name":
		return e.Name
	case "jobTitle":
		return e.JobTitle
	case "department":
		return e.Department
	case "nationality":
		return e.Nationality
	case "gender":
		return e.Gender
	case "joinDate":
		return e.JoinDate
	case "location":
		return e.Location
	case "manager":
		return e.Manager
	}
	return ""
}

// Comparer orders two strings; a locale collator satisfies it.
type Comparer interface {
	CompareString(a, b string) int
}

// Query filters and sorts the employee table.
type Query struct {
	// Department and JobTitle keep exact (trimmed) matches when non-empty.
	Department string
	JobTitle   string
	// Search keeps rows where any display column contains the text,
	// case-insensitively.
	Search string
	// SortColumn sorts by a display column; numeric when both cells parse.
	SortColumn string
	Desc       bool
}

// Apply runs q over the dataset and returns the matching employees. The
// dataset itself is left untouched.
func (q Query) Apply(ds *Dataset, cmp Comparer) []Employee {
	rows := make([]Employee, 0, len(ds.Employees))
	cols := ds.DisplayColumns()
	dept := strings.TrimSpace(q.Department)
	job := strings.TrimSpace(q.JobTitle)
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, e := range ds.Employees {
		if dept != "" && strings.TrimSpace(e.Department) != dept {
			continue
		}
		if job != "" && strings.TrimSpace(e.JobTitle) != job {
			continue
		}
		if needle != "" && !rowContains(e, cols, needle) {
			continue
		}
		rows = append(rows, e)
	}
	if q.SortColumn == "" {
		return rows
	}
	dir := 1
	if q.Desc {
		dir = -1
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return compareCells(rows[i].Cell(q.SortColumn), rows[j].Cell(q.SortColumn), cmp)*dir < 0
	})
	return rows
}

// compareCells compares numerically when both cells strip to a number
// (an empty cell counts as 0) and falls back to cmp otherwise.
func compareCells(a, b string, cmp Comparer) int {
	na, aok := strictNumber(a)
	nb, bok := strictNumber(b)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	if cmp != nil {
		return cmp.CompareString(a, b)
	}
	return strings.Compare(a, b)
}

func strictNumber(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, strings.TrimSpace(s) == ""
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	return f, err == nil
}

func rowContains(e Employee, cols []string, needle string) bool {
	for _, c := range cols {
		if strings.Contains(strings.ToLower(e.Cell(c)), needle) {
			return true
		}
	}
	return false
}

// DistinctDepartments lists department values (blank as unspecified) in
// cmp order, for filter pickers.
func (ds *Dataset) DistinctDepartments(unspecified string, cmp Comparer) []string {
	return distinct(ds.Employees, func(e Employee) string { return e.Department }, unspecified, cmp)
}

// DistinctJobTitles lists job titles the same way.
func (ds *Dataset) DistinctJobTitles(unspecified string, cmp Comparer) []string {
	return distinct(ds.Employees, func(e Employee) string { return e.JobTitle }, unspecified, cmp)
}

func distinct(emps []Employee, field func(Employee) string, unspecified string, cmp Comparer) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range emps {
		v := strings.TrimSpace(field(e))
		if v == "" {
			v = unspecified
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp != nil {
			return cmp.CompareString(out[i], out[j]) < 0
		}
		return out[i] < out[j]
	})
	return out
}

func containsAny(cols []string, names []string) bool {
	for _, c := range cols {
		for _, n := range names {
			if c == n {
				return true
			}
		}
	}
	return false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
