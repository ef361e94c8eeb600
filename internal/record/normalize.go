package record

// Employee is one normalized row. Text fields hold the source value as a
// string (empty when the column is missing); money and tenure fields are
// coerced with ToNumber.
type Employee struct {
	EmployeeID      string  `json:"employeeId"`
	Name            string  `json:"name"`
	JobTitle        string  `json:"jobTitle"`
	Department      string  `json:"department"`
	Nationality     string  `json:"nationality"`
	Gender          string  `json:"gender"`
	JoinDate        string  `json:"joinDate"`
	ExperienceYears float64 `json:"experienceYears"`
	Location        string  `json:"location"`
	Manager         string  `json:"manager"`
	BaseSalary      float64 `json:"baseSalary"`
	AllowanceTotal  float64 `json:"allowanceTotal"`
	TotalComp       float64 `json:"totalComp"`
	// TotalFromColumn is set when TotalComp came from an explicit total
	// column rather than base + allowances.
	TotalFromColumn bool `json:"totalFromColumn"`

	raw *Raw
}

// Raw returns the source record the employee was built from.
func (e Employee) Raw() *Raw { return e.raw }

// Fields records which source column answered each logical attribute.
// A Found flag is false when the placeholder (first candidate) was used.
type Fields struct {
	Name        string `json:"name"`
	JobTitle    string `json:"jobTitle"`
	Department  string `json:"department"`
	Nationality string `json:"nationality"`
	Gender      string `json:"gender"`
	Experience  string `json:"experienceYears"`
	BaseSalary  string `json:"baseSalary"`
	// Total is empty when the dataset has no explicit total column.
	Total      string `json:"totalComp,omitempty"`
	EmployeeID string `json:"employeeId"`
	JoinDate   string `json:"joinDate"`
	Location   string `json:"location"`
	Manager    string `json:"manager"`

	Found map[string]bool `json:"found"`
}

// Dataset is the result of normalizing one loaded file.
type Dataset struct {
	Columns          []string   `json:"columns"`
	AllowanceColumns []string   `json:"allowanceColumns"`
	Fields           Fields     `json:"fields"`
	Employees        []Employee `json:"employees"`
}

// ResolveFields resolves every logical attribute against a column list.
func ResolveFields(columns []string) Fields {
	f := Fields{Found: map[string]bool{}}
	res := func(logical string, keys []string) string {
		col, ok := Resolve(columns, keys)
		f.Found[logical] = ok
		return col
	}
	f.Name = res("name", NameKeys)
	f.JobTitle = res("jobTitle", JobTitleKeys)
	f.Department = res("department", DepartmentKeys)
	f.Nationality = res("nationality", NationalityKeys)
	f.Gender = res("gender", GenderKeys)
	f.Experience = res("experienceYears", ExperienceKeys)
	f.BaseSalary = res("baseSalary", BaseSalaryKeys)
	if col := res("totalComp", TotalKeys); f.Found["totalComp"] {
		f.Total = col
	}
	f.EmployeeID = res("employeeId", EmployeeIDKeys)
	f.JoinDate = res("joinDate", JoinDateKeys)
	f.Location = res("location", LocationKeys)
	f.Manager = res("manager", ManagerKeys)
	return f
}

// UnionColumns merges the column lists of all records in first-seen order.
func UnionColumns(raws []*Raw) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, r := range raws {
		if r == nil {
			continue
		}
		for _, c := range r.columns {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	return cols
}

// Normalize turns raw records into employees. Columns are resolved once for
// the whole dataset; allowances are discovered from the same column list.
// One Employee is produced per input record, however broken the row is.
func Normalize(raws []*Raw) *Dataset {
	ds := &Dataset{Fields: Fields{Found: map[string]bool{}}}
	if len(raws) == 0 {
		return ds
	}
	ds.Columns = UnionColumns(raws)
	ds.Fields = ResolveFields(ds.Columns)
	ds.AllowanceColumns = DiscoverAllowanceColumns(ds.Columns, ds.Fields.BaseSalary, ds.Fields.Total)

	ds.Employees = make([]Employee, 0, len(raws))
	for _, r := range raws {
		if r == nil {
			r = NewRaw(nil, nil)
		}
		ds.Employees = append(ds.Employees, normalizeOne(r, ds.Fields, ds.AllowanceColumns))
	}
	return ds
}

func normalizeOne(r *Raw, f Fields, allowances []string) Employee {
	base := ToNumber(valueOf(r, f.BaseSalary))
	var allw float64
	for _, c := range allowances {
		allw += ToNumber(valueOf(r, c))
	}
	e := Employee{
		EmployeeID:      r.Text(f.EmployeeID),
		Name:            r.Text(f.Name),
		JobTitle:        r.Text(f.JobTitle),
		Department:      r.Text(f.Department),
		Nationality:     r.Text(f.Nationality),
		Gender:          r.Text(f.Gender),
		JoinDate:        r.Text(f.JoinDate),
		ExperienceYears: ToNumber(valueOf(r, f.Experience)),
		Location:        r.Text(f.Location),
		Manager:         r.Text(f.Manager),
		BaseSalary:      base,
		AllowanceTotal:  allw,
		TotalComp:       base + allw,
		raw:             r,
	}
	if f.Total != "" {
		if t := ToNumber(valueOf(r, f.Total)); t > 0 {
			e.TotalComp = t
			e.TotalFromColumn = true
		}
	}
	return e
}

func valueOf(r *Raw, col string) any {
	v, _ := r.Get(col)
	return v
}
