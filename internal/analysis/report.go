// Package analysis aggregates normalized employee data into the tables,
// correlation and recommendations of a compensation report.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/KaramelBytes/staffscope-cli/internal/hierarchy"
	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// ErrEmptyDataset is reported by callers that refuse to analyze a file
// without records.
var ErrEmptyDataset = errors.New("dataset has no records")

// Options controls report thresholds and labels.
type Options struct {
	// Company names the root of the org chart.
	Company string
	// Language selects labels and collation: "ar" (default) or "en".
	Language string
	// Departments whose mean total is below LowRatio (above HighRatio) times
	// the organization mean are flagged.
	LowRatio  float64
	HighRatio float64
	// GenderGap is the relative spread of gender means that triggers a
	// recommendation.
	GenderGap float64
	// CorrWeak and CorrStrong bound the experience/pay correlation.
	CorrWeak   float64
	CorrStrong float64
	// Row limits for the nationality charts; 0 means no limit.
	TopNationalities          int
	TopAllowanceNationalities int
	// Hierarchy builds the org tree.
	Hierarchy bool
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		Company:                   locale.DefaultCompany,
		Language:                  "ar",
		LowRatio:                  0.8,
		HighRatio:                 1.2,
		GenderGap:                 0.1,
		CorrWeak:                  0.1,
		CorrStrong:                0.6,
		TopNationalities:          6,
		TopAllowanceNationalities: 10,
		Hierarchy:                 true,
	}
}

// Report is the full analysis of one dataset. It renders as Markdown and
// marshals to JSON.
type Report struct {
	Name                   string                  `json:"name"`
	Language               string                  `json:"language"`
	Company                string                  `json:"company"`
	Rows                   int                     `json:"rows"`
	Columns                []string                `json:"columns"`
	AllowanceColumns       []string                `json:"allowanceColumns"`
	Fields                 record.Fields           `json:"fields"`
	Summary                ExecutiveSummary        `json:"summary"`
	Departments            []Row                   `json:"departments"`
	Nationalities          []Row                   `json:"nationalities"`
	Genders                []Row                   `json:"genders"`
	Experience             []Row                   `json:"experience"`
	AllowanceBreakdown     []ColumnSum             `json:"allowanceBreakdown"`
	DepartmentCosts        []DepartmentCost        `json:"departmentCosts"`
	AllowanceMatrix        []NationalityAllowances `json:"allowanceMatrix"`
	TopNationalities       []KeyCount              `json:"topNationalities"`
	AllowanceByNationality []KeySum                `json:"allowanceByNationality"`
	GenderDistribution     []KeyCount              `json:"genderDistribution"`
	ExperienceCorrelation  float64                 `json:"experienceCorrelation"`
	Recommendations        []Recommendation        `json:"recommendations"`
	Hierarchy              *hierarchy.Node         `json:"hierarchy,omitempty"`
	Warnings               []string                `json:"warnings,omitempty"`
}

// Run normalizes raws and computes every section of the report. It never
// fails; an empty input gives a report with zero rows.
func Run(name string, raws []*record.Raw, opt Options) *Report {
	loc := locale.Lookup(opt.Language)
	ds := record.Normalize(raws)
	emps := ds.Employees

	rep := &Report{
		Name:             name,
		Language:         loc.Code,
		Company:          opt.Company,
		Rows:             len(emps),
		Columns:          ds.Columns,
		AllowanceColumns: ds.AllowanceColumns,
		Fields:           ds.Fields,
		Summary:          Summarize(emps),
	}
	if rep.Company == "" {
		rep.Company = locale.DefaultCompany
	}

	rep.Departments = AggregateBy(emps, ByDepartment(loc), FieldBase, FieldAllowance, FieldTotal)
	SortByMeanDesc(rep.Departments, FieldTotal)
	rep.Nationalities = AggregateBy(emps, ByNationality(loc), FieldTotal)
	SortByCountDesc(rep.Nationalities)
	rep.Genders = AggregateBy(emps, ByGender(loc), FieldTotal)
	SortByCountDesc(rep.Genders)
	rep.Experience = AggregateBy(emps, ByExperience(loc), FieldBase, FieldAllowance, FieldTotal)
	SortByKey(rep.Experience, loc)

	rep.AllowanceBreakdown = AllowanceBreakdown(ds)
	rep.DepartmentCosts = DepartmentCosts(emps, loc)
	rep.AllowanceMatrix = AllowanceMatrix(ds, loc)
	rep.TopNationalities = TopNationalities(emps, loc, opt.TopNationalities)
	rep.AllowanceByNationality = AllowanceByNationality(emps, loc, opt.TopAllowanceNationalities)
	rep.GenderDistribution = GenderDistribution(emps, loc)
	rep.ExperienceCorrelation = ExperienceCorrelation(emps)
	rep.Recommendations = Recommend(emps, opt, loc)

	if opt.Hierarchy && len(raws) > 0 {
		tree := hierarchy.Build(raws, rep.Company, loc)
		if tree.Available() {
			rep.Hierarchy = tree
		} else {
			rep.Warnings = append(rep.Warnings, "no department column found; org chart skipped")
		}
	}
	if len(emps) > 0 {
		if !ds.Fields.Found["baseSalary"] {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("no base salary column found; base salary read as 0 (expected one of: %s)", strings.Join(record.BaseSalaryKeys, ", ")))
		}
		if len(ds.AllowanceColumns) == 0 {
			rep.Warnings = append(rep.Warnings, "no allowance columns found")
		}
		if ds.Fields.Total != "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("total compensation taken from column %q where positive", ds.Fields.Total))
		}
	}
	return rep
}

// JSON returns the indented JSON encoding of the report.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders the report in labeled sections.
func (r *Report) Markdown() string {
	loc := locale.Lookup(r.Language)
	money := loc.Money
	var b strings.Builder

	b.WriteString("[EXECUTIVE SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	s := r.Summary
	b.WriteString(fmt.Sprintf("Employees: %d\n", s.Employees))
	b.WriteString(fmt.Sprintf("Average base salary: %s\n", money(s.AvgBase)))
	b.WriteString(fmt.Sprintf("Average allowances: %s\n", money(s.AvgAllowance)))
	b.WriteString(fmt.Sprintf("Average total pay: %s\n", money(s.AvgTotal)))
	b.WriteString(fmt.Sprintf("Lowest total pay: %s\n", money(s.MinTotal)))
	b.WriteString(fmt.Sprintf("Highest total pay: %s\n", money(s.MaxTotal)))
	b.WriteString(fmt.Sprintf("Payroll: base %s, allowances %s, total %s\n", money(s.TotalBase), money(s.TotalAllowance), money(s.TotalComp)))

	if len(r.Departments) > 0 {
		b.WriteString("\n[BY DEPARTMENT]\n")
		rows := make([][]string, len(r.Departments))
		for i, d := range r.Departments {
			rows[i] = []string{d.Key, fmt.Sprint(d.Count), fmt.Sprintf("%.2f", d.Mean(FieldBase)), fmt.Sprintf("%.2f", d.Mean(FieldAllowance)), fmt.Sprintf("%.2f", d.Mean(FieldTotal))}
		}
		writeTable(&b, []string{"Department", "Employees", "Avg base", "Avg allowances", "Avg total"}, rows)
	}
	if len(r.Nationalities) > 0 {
		b.WriteString("\n[BY NATIONALITY]\n")
		writeTable(&b, []string{"Nationality", "Employees", "Avg total"}, countMeanRows(r.Nationalities, money))
	}
	if len(r.Genders) > 0 {
		b.WriteString("\n[BY GENDER]\n")
		writeTable(&b, []string{"Gender", "Employees", "Avg total"}, countMeanRows(r.Genders, money))
	}
	if len(r.Experience) > 0 {
		b.WriteString("\n[BY EXPERIENCE]\n")
		rows := make([][]string, len(r.Experience))
		for i, e := range r.Experience {
			t := e.Stats[FieldTotal]
			rows[i] = []string{e.Key, fmt.Sprint(e.Count), fmt.Sprintf("%.2f", e.Mean(FieldBase)), fmt.Sprintf("%.2f", e.Mean(FieldAllowance)), fmt.Sprintf("%.2f", t.Mean), money(t.Min), money(t.Max)}
		}
		writeTable(&b, []string{"Experience", "Employees", "Avg base", "Avg allowances", "Avg total", "Min total", "Max total"}, rows)
	}

	b.WriteString("\n[ALLOWANCE BREAKDOWN]\n")
	if len(r.AllowanceBreakdown) == 0 {
		b.WriteString("No itemized allowance columns found.\n")
	} else {
		rows := make([][]string, len(r.AllowanceBreakdown))
		for i, a := range r.AllowanceBreakdown {
			rows[i] = []string{a.Column, money(a.Sum)}
		}
		writeTable(&b, []string{"Allowance", "Total"}, rows)
	}
	if len(r.DepartmentCosts) > 0 {
		b.WriteString("\n[DEPARTMENT COST]\n")
		rows := make([][]string, len(r.DepartmentCosts))
		for i, c := range r.DepartmentCosts {
			rows[i] = []string{c.Department, money(c.Base), money(c.Allowance), money(c.Total), fmt.Sprintf("%.1f%%", c.Ratio*100)}
		}
		writeTable(&b, []string{"Department", "Base", "Allowances", "Total", "Allowance share"}, rows)
	}
	if len(r.AllowanceMatrix) > 0 && len(r.AllowanceColumns) > 0 {
		b.WriteString("\n[ALLOWANCES BY NATIONALITY]\n")
		head := append([]string{"Nationality"}, r.AllowanceColumns...)
		head = append(head, "Total allowances")
		rows := make([][]string, len(r.AllowanceMatrix))
		for i, m := range r.AllowanceMatrix {
			row := []string{m.Nationality}
			for _, v := range m.Sums {
				row = append(row, money(v))
			}
			rows[i] = append(row, money(m.Total))
		}
		writeTable(&b, head, rows)
	}
	if len(r.TopNationalities) > 0 {
		b.WriteString("\n[TOP NATIONALITIES]\n")
		for _, n := range r.TopNationalities {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(n.Key), n.Count))
		}
	}
	if len(r.AllowanceByNationality) > 0 {
		b.WriteString("\n[ALLOWANCE TOTAL BY NATIONALITY]\n")
		for _, n := range r.AllowanceByNationality {
			b.WriteString(fmt.Sprintf("- %s: %s\n", safeVal(n.Key), money(n.Sum)))
		}
	}
	if len(r.GenderDistribution) > 0 {
		b.WriteString("\n[GENDER DISTRIBUTION]\n")
		for _, g := range r.GenderDistribution {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeVal(g.Key), g.Count))
		}
	}
	if r.Rows > 0 {
		b.WriteString("\n[CORRELATION]\n")
		b.WriteString(fmt.Sprintf("- experience ~ total pay: r=%.3f\n", r.ExperienceCorrelation))
	}
	if r.Hierarchy != nil {
		b.WriteString("\n[ORG CHART]\n")
		b.WriteString(r.Hierarchy.String())
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\n[RECOMMENDATIONS]\n")
		for _, rec := range r.Recommendations {
			b.WriteString("- ")
			b.WriteString(rec.Text)
			b.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func countMeanRows(rows []Row, money func(float64) string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Key, fmt.Sprint(r.Count), money(r.Mean(FieldTotal))}
	}
	return out
}

func writeTable(b *strings.Builder, head []string, rows [][]string) {
	writeCells(b, head)
	sep := make([]string, len(head))
	for i := range sep {
		sep[i] = "---"
	}
	writeCells(b, sep)
	for _, r := range rows {
		writeCells(b, r)
	}
}

func writeCells(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(c))
	}
	b.WriteString(" |\n")
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
