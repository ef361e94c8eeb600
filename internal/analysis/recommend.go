package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/staffscope-cli/internal/locale"
	"github.com/KaramelBytes/staffscope-cli/internal/record"
)

// Recommendation kinds.
const (
	KindLowDepartments   = "low_departments"
	KindHighDepartments  = "high_departments"
	KindGenderGap        = "gender_gap"
	KindWeakExperience   = "weak_experience"
	KindStrongExperience = "strong_experience"
)

const maxDepartmentsFlagged = 3

// Recommendation is one suggested follow-up.
type Recommendation struct {
	Kind     string   `json:"kind"`
	Text     string   `json:"text"`
	Subjects []string `json:"subjects,omitempty"`
}

// Recommend derives follow-ups from department and gender pay levels and
// from how experience relates to total pay. Nothing is produced for an
// empty dataset.
func Recommend(emps []record.Employee, opt Options, loc locale.Locale) []Recommendation {
	if len(emps) == 0 {
		return nil
	}
	org := Summarize(emps).AvgTotal
	var out []Recommendation

	var low, high []string
	for _, r := range AggregateBy(emps, ByDepartment(loc), FieldTotal) {
		m := r.Mean(FieldTotal)
		if m < opt.LowRatio*org && len(low) < maxDepartmentsFlagged {
			low = append(low, r.Key)
		}
		if m > opt.HighRatio*org && len(high) < maxDepartmentsFlagged {
			high = append(high, r.Key)
		}
	}
	if len(low) > 0 {
		out = append(out, Recommendation{
			Kind:     KindLowDepartments,
			Text:     fmt.Sprintf(loc.RecLowDepartments, strings.Join(low, loc.ListSeparator)),
			Subjects: low,
		})
	}
	if len(high) > 0 {
		out = append(out, Recommendation{
			Kind:     KindHighDepartments,
			Text:     fmt.Sprintf(loc.RecHighDepartments, strings.Join(high, loc.ListSeparator)),
			Subjects: high,
		})
	}

	genders := AggregateBy(emps, ByGender(loc), FieldTotal)
	if len(genders) >= 2 && org > 0 {
		SortByMeanDesc(genders, FieldTotal)
		top, bottom := genders[0], genders[len(genders)-1]
		gap := (top.Mean(FieldTotal) - bottom.Mean(FieldTotal)) / org
		if gap > opt.GenderGap {
			out = append(out, Recommendation{
				Kind:     KindGenderGap,
				Text:     loc.RecGenderGap,
				Subjects: []string{top.Key, bottom.Key},
			})
		}
	}

	corr := ExperienceCorrelation(emps)
	switch {
	case corr < opt.CorrWeak:
		out = append(out, Recommendation{Kind: KindWeakExperience, Text: loc.RecWeakExperience})
	case corr > opt.CorrStrong:
		out = append(out, Recommendation{Kind: KindStrongExperience, Text: loc.RecStrongExperience})
	}
	return out
}

// ExperienceCorrelation is Pearson's r between experience years and total
// compensation.
func ExperienceCorrelation(emps []record.Employee) float64 {
	xs := make([]float64, len(emps))
	ys := make([]float64, len(emps))
	for i, e := range emps {
		xs[i] = e.ExperienceYears
		ys[i] = e.TotalComp
	}
	return Correlation(xs, ys)
}
