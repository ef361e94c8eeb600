package analysis

import (
	"sort"

	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// ExecutiveSummary is the headline block of a report. All figures are 0
// for an empty dataset.
type ExecutiveSummary struct {
	Employees      int     `json:"employees"`
	AvgBase        float64 `json:"avgBase"`
	AvgAllowance   float64 `json:"avgAllowance"`
	AvgTotal       float64 `json:"avgTotal"`
	MinTotal       float64 `json:"minTotal"`
	MaxTotal       float64 `json:"maxTotal"`
	TotalBase      float64 `json:"totalBase"`
	TotalAllowance float64 `json:"totalAllowance"`
	TotalComp      float64 `json:"totalComp"`
}

// Summarize computes the executive summary over all employees.
func Summarize(emps []record.Employee) ExecutiveSummary {
	s := ExecutiveSummary{Employees: len(emps)}
	if len(emps) == 0 {
		return s
	}
	all := AggregateBy(emps, func(record.Employee) string { return "" }, FieldBase, FieldAllowance, FieldTotal)[0]
	base, allw, tot := all.Stats[FieldBase], all.Stats[FieldAllowance], all.Stats[FieldTotal]
	s.AvgBase, s.TotalBase = base.Mean, base.Sum
	s.AvgAllowance, s.TotalAllowance = allw.Mean, allw.Sum
	s.AvgTotal, s.TotalComp = tot.Mean, tot.Sum
	s.MinTotal, s.MaxTotal = tot.Min, tot.Max
	return s
}

// ColumnSum is the dataset-wide total of one allowance column.
type ColumnSum struct {
	Column string  `json:"column"`
	Sum    float64 `json:"sum"`
}

// AllowanceBreakdown sums each allowance column over the dataset, drops
// columns whose sum is not positive, and orders the rest by sum descending.
func AllowanceBreakdown(ds *record.Dataset) []ColumnSum {
	var out []ColumnSum
	for _, col := range ds.AllowanceColumns {
		var sum float64
		for _, e := range ds.Employees {
			sum += columnValue(e, col)
		}
		if sum > 0 {
			out = append(out, ColumnSum{Column: col, Sum: sum})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sum > out[j].Sum })
	return out
}

// DepartmentCost is one row of the payroll cost table.
type DepartmentCost struct {
	Department string  `json:"department"`
	Base       float64 `json:"base"`
	Allowance  float64 `json:"allowance"`
	Total      float64 `json:"total"`
	// Ratio is Allowance / Total, 0 when Total is 0.
	Ratio float64 `json:"ratio"`
}

// DepartmentCosts sums base, allowances and total per department, ordered by
// total descending.
func DepartmentCosts(emps []record.Employee, loc locale.Locale) []DepartmentCost {
	rows := AggregateBy(emps, ByDepartment(loc), FieldBase, FieldAllowance, FieldTotal)
	SortBySumDesc(rows, FieldTotal)
	out := make([]DepartmentCost, len(rows))
	for i, r := range rows {
		c := DepartmentCost{
			Department: r.Key,
			Base:       r.Sum(FieldBase),
			Allowance:  r.Sum(FieldAllowance),
			Total:      r.Sum(FieldTotal),
		}
		if c.Total != 0 {
			c.Ratio = c.Allowance / c.Total
		}
		out[i] = c
	}
	return out
}

// NationalityAllowances is one row of the allowance-by-nationality matrix.
// Sums line up with Dataset.AllowanceColumns.
type NationalityAllowances struct {
	Nationality string    `json:"nationality"`
	Sums        []float64 `json:"sums"`
	Total       float64   `json:"total"`
}

// AllowanceMatrix sums every allowance column per nationality, ordered by
// the row total descending.
func AllowanceMatrix(ds *record.Dataset, loc locale.Locale) []NationalityAllowances {
	key := ByNationality(loc)
	index := map[string]int{}
	var out []NationalityAllowances
	for _, e := range ds.Employees {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, NationalityAllowances{Nationality: k, Sums: make([]float64, len(ds.AllowanceColumns))})
		}
		for c, col := range ds.AllowanceColumns {
			v := columnValue(e, col)
			out[i].Sums[c] += v
			out[i].Total += v
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// KeyCount is a group label with its size.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopNationalities returns the n largest nationality groups. n <= 0 means
// all of them.
func TopNationalities(emps []record.Employee, loc locale.Locale, n int) []KeyCount {
	rows := AggregateBy(emps, ByNationality(loc))
	SortByCountDesc(rows)
	return counts(limit(rows, n))
}

// GenderDistribution returns head counts per gender in first-seen order.
func GenderDistribution(emps []record.Employee, loc locale.Locale) []KeyCount {
	return counts(AggregateBy(emps, ByGender(loc)))
}

// KeySum is a group label with a summed amount.
type KeySum struct {
	Key string  `json:"key"`
	Sum float64 `json:"sum"`
}

// AllowanceByNationality returns the n nationalities with the largest
// allowance totals.
func AllowanceByNationality(emps []record.Employee, loc locale.Locale, n int) []KeySum {
	rows := AggregateBy(emps, ByNationality(loc), FieldAllowance)
	SortBySumDesc(rows, FieldAllowance)
	rows = limit(rows, n)
	out := make([]KeySum, len(rows))
	for i, r := range rows {
		out[i] = KeySum{Key: r.Key, Sum: r.Sum(FieldAllowance)}
	}
	return out
}

func counts(rows []Row) []KeyCount {
	out := make([]KeyCount, len(rows))
	for i, r := range rows {
		out[i] = KeyCount{Key: r.Key, Count: r.Count}
	}
	return out
}

func limit(rows []Row, n int) []Row {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func columnValue(e record.Employee, col string) float64 {
	r := e.Raw()
	if r == nil {
		return 0
	}
	v, _ := r.Get(col)
	return record.ToNumber(v)
}
