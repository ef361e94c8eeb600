package record

// Candidate column names per logical attribute, most specific first. The
// first entry doubles as the placeholder key when nothing matches.
var (
	NameKeys        = []string{"name", "الاسم"}
	JobTitleKeys    = []string{"jobTitle", "المسمى الوظيفي"}
	DepartmentKeys  = []string{"department", "القسم"}
	NationalityKeys = []string{"nationality", "الجنسية"}
	GenderKeys      = []string{"gender", "الجنس"}
	ExperienceKeys  = []string{"experienceYears", "سنوات الخبرة", "سنوات خبرة العمل"}
	BaseSalaryKeys  = []string{"baseSalary", "الراتب الأساسي", "الراتب الاساسي", "basicSalary"}
	TotalKeys       = []string{"totalComp", "الراتب الاجمالي", "إجمالي الراتب", "إجمالي التعويضات", "totalSalary"}
	EmployeeIDKeys  = []string{"employeeId", "الرقم الوظيفي", "رقم الموظف"}
	JoinDateKeys    = []string{"joinDate", "تاريخ الانضمام", "تاريخ الالتحاق"}
	LocationKeys    = []string{"location", "الموقع", "المدينة", "الفرع"}
	ManagerKeys     = []string{"manager", "المدير المباشر", "المدير"}
)

// Hierarchy lookups accept a few more spellings seen in HR exports.
var (
	HierarchyDepartmentKeys = []string{"department", "القسم", "الادارة", "الإدارة", "ادارة", "الإداره"}
	HierarchyManagerKeys    = []string{"manager", "المدير المباشر", "المدير"}
	HierarchyNameKeys       = []string{"name", "الاسم"}
	HierarchyJobKeys        = []string{"jobTitle", "المسمى الوظيفي", "المسمي الوظيفي"}
)

// Resolve returns the first candidate present in columns. When none is
// present it returns candidates[0] and false so callers still have a stable
// key to read (which yields an empty value). Value emptiness is not checked.
func Resolve(columns []string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	for _, cand := range candidates {
		if _, ok := set[cand]; ok {
			return cand, true
		}
	}
	return candidates[0], false
}

// FirstFilled returns the first candidate whose value in r is non-empty.
// Unlike Resolve it looks at one record's values, so two rows of the same
// file may answer from different columns.
func FirstFilled(r *Raw, candidates []string) (string, bool) {
	for _, cand := range candidates {
		if v, ok := r.Get(cand); ok && !isBlank(v) {
			return cand, true
		}
	}
	return "", false
}

// HasAny reports whether r carries any of the candidate columns.
func HasAny(r *Raw, candidates []string) bool {
	for _, cand := range candidates {
		if r.Has(cand) {
			return true
		}
	}
	return false
}
