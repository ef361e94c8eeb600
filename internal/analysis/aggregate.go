package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// Field names a numeric employee attribute that can be aggregated.
type Field string

const (
	FieldTotal     Field = "totalComp"
	FieldBase      Field = "baseSalary"
	FieldAllowance Field = "allowanceTotal"
)

func (f Field) value(e record.Employee) float64 {
	switch f {
	case FieldBase:
		return e.BaseSalary
	case FieldAllowance:
		return e.AllowanceTotal
	default:
		return e.TotalComp
	}
}

// Summary holds the statistics of one field within a group.
type Summary struct {
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Row is one group of an aggregate table.
type Row struct {
	Key   string            `json:"key"`
	Count int               `json:"count"`
	Stats map[Field]Summary `json:"stats"`
}

// Mean returns the group mean of f, or 0 when f was not aggregated.
func (r Row) Mean(f Field) float64 { return r.Stats[f].Mean }

// Sum returns the group sum of f, or 0 when f was not aggregated.
func (r Row) Sum(f Field) float64 { return r.Stats[f].Sum }

// KeyFunc extracts the group key of an employee.
type KeyFunc func(record.Employee) string

// ByDepartment groups on department; blank values use the unspecified label.
func ByDepartment(loc locale.Locale) KeyFunc {
	return func(e record.Employee) string { return loc.OrBlank(e.Department) }
}

// ByNationality groups on nationality.
func ByNationality(loc locale.Locale) KeyFunc {
	return func(e record.Employee) string { return loc.OrBlank(e.Nationality) }
}

// ByGender groups on gender.
func ByGender(loc locale.Locale) KeyFunc {
	return func(e record.Employee) string { return loc.OrBlank(e.Gender) }
}

// ByExperience groups on the experience bucket label.
func ByExperience(loc locale.Locale) KeyFunc {
	return func(e record.Employee) string { return ExpBucket(e.ExperienceYears).Label(loc) }
}

// AggregateBy groups emps by key in first-seen order and summarizes each
// field per group. Groups are never empty.
func AggregateBy(emps []record.Employee, key KeyFunc, fields ...Field) []Row {
	index := map[string]int{}
	var members [][]record.Employee
	var rows []Row
	for _, e := range emps {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, Row{Key: k})
			members = append(members, nil)
		}
		members[i] = append(members[i], e)
	}
	for i := range rows {
		rows[i].Count = len(members[i])
		rows[i].Stats = make(map[Field]Summary, len(fields))
		for _, f := range fields {
			vals := make([]float64, len(members[i]))
			for j, e := range members[i] {
				vals[j] = f.value(e)
			}
			rows[i].Stats[f] = summarize(vals)
		}
	}
	return rows
}

// summarize returns zeros for empty input.
func summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(vals)
	var s Summary
	s.Sum, _ = stats.Sum(data)
	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	return s
}

// SortByMeanDesc orders rows by descending mean of f, keeping ties stable.
func SortByMeanDesc(rows []Row, f Field) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Mean(f) > rows[j].Mean(f) })
}

// SortBySumDesc orders rows by descending sum of f.
func SortBySumDesc(rows []Row, f Field) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Sum(f) > rows[j].Sum(f) })
}

// SortByCountDesc orders rows by descending group size.
func SortByCountDesc(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
}

// SortByKey orders rows by key under the locale collation.
func SortByKey(rows []Row, loc locale.Locale) {
	c := loc.Collator()
	sort.SliceStable(rows, func(i, j int) bool { return c.CompareString(rows[i].Key, rows[j].Key) < 0 })
}
