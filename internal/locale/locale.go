// Package locale holds the label sets and collation used when grouping,
// sorting and describing employee data.
package locale

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCompany names the root of the org chart when none is configured.
const DefaultCompany = "شركة الراشد"

// Locale bundles user-visible labels with the language whose collation
// orders them.
type Locale struct {
	Code string
	Tag  language.Tag

	Unspecified     string
	NoManager       string
	EmployeeUnnamed string

	CompanyRole    string
	ExecutiveName  string
	DepartmentRole string
	ManagerRole    string

	Buckets [5]string

	RecLowDepartments   string
	RecHighDepartments  string
	RecGenderGap        string
	RecWeakExperience   string
	RecStrongExperience string
	ListSeparator       string
}

// Arabic is the default locale; its labels match the source HR exports.
var Arabic = Locale{
	Code:            "ar",
	Tag:             language.Arabic,
	Unspecified:     "غير محدد",
	NoManager:       "بدون مدير",
	EmployeeUnnamed: "(موظف)",
	CompanyRole:     "الادارة التنفيذية",
	ExecutiveName:   "نائب الرئيس التنفيذي",
	DepartmentRole:  "ادارة",
	ManagerRole:     "مدير مباشر",
	Buckets: [5]string{
		"0-1 سنة",
		"2-3 سنوات",
		"4-5 سنوات",
		"6-10 سنوات",
		"أكثر من 10 سنوات",
	},
	RecLowDepartments:   "مراجعة هيكل الرواتب في الأقسام: %s للاقتراب من متوسط المنظمة.",
	RecHighDepartments:  "التحقق من منطقية بدلات الأقسام: %s مقارنة بمتوسط المنظمة.",
	RecGenderGap:        "هناك فجوة ملحوظة في التعويضات بين الجنسين، يُوصى بإجراء مراجعة للإنصاف الداخلي.",
	RecWeakExperience:   "العلاقة بين الخبرة والدخل ضعيفة؛ يُراجع نظام الترقيات والحوافز.",
	RecStrongExperience: "توجد علاقة قوية بين الخبرة والدخل؛ يمكن تعزيز برامج الاحتفاظ بالمواهب خبرة.",
	ListSeparator:       "، ",
}

// English mirrors Arabic for English-language reports.
var English = Locale{
	Code:            "en",
	Tag:             language.English,
	Unspecified:     "Unspecified",
	NoManager:       "No manager",
	EmployeeUnnamed: "(employee)",
	CompanyRole:     "Executive management",
	ExecutiveName:   "Deputy CEO",
	DepartmentRole:  "Department",
	ManagerRole:     "Direct manager",
	Buckets: [5]string{
		"0-1 years",
		"2-3 years",
		"4-5 years",
		"6-10 years",
		"Over 10 years",
	},
	RecLowDepartments:   "Review the pay structure in: %s to move closer to the organization average.",
	RecHighDepartments:  "Check that allowances are justified in: %s compared with the organization average.",
	RecGenderGap:        "There is a noticeable compensation gap between genders; an internal equity review is recommended.",
	RecWeakExperience:   "Experience and pay are weakly related; review the promotion and incentive scheme.",
	RecStrongExperience: "Experience and pay are strongly related; retention programs for experienced staff can be reinforced.",
	ListSeparator:       ", ",
}

// Lookup returns the locale for a language code, defaulting to Arabic.
func Lookup(code string) Locale {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "en", "english":
		return English
	default:
		return Arabic
	}
}

// Collator returns a fresh collator for the locale. Collators keep internal
// buffers, so each sort should use its own.
func (l Locale) Collator() *collate.Collator {
	return collate.New(l.Tag)
}

// Money formats an amount with no fraction digits and the locale's
// grouping, the way report figures are shown.
func (l Locale) Money(v float64) string {
	return message.NewPrinter(l.Tag).Sprintf("%.0f", v)
}

// OrBlank returns s, or the unspecified label when s is blank.
func (l Locale) OrBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return l.Unspecified
	}
	return s
}
