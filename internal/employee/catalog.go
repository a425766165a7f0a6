package employee

// Departments offered by the create and prediction forms.
var Departments = []string{
	"HR", "IT", "Sales", "Marketing", "Finance", "Operations", "Research & Development",
}

// JobRoles offered by the create and prediction forms.
var JobRoles = []string{
	"Manager", "Senior Engineer", "Software Engineer", "Sales Representative",
	"Sales Executive", "Marketing Manager", "HR Manager", "Analyst", "Data Scientist", "Product Manager",
}

// EducationLevel maps a display name to the backend's ordinal code.
type EducationLevel struct {
	Name string
	Code int
}

// EducationLevels lists the levels in ascending order.
var EducationLevels = []EducationLevel{
	{Name: "Below College", Code: 1},
	{Name: "College", Code: 2},
	{Name: "Bachelor", Code: 3},
	{Name: "Master", Code: 4},
	{Name: "Doctor", Code: 5},
}

// EducationCode resolves a display name to its code.
func EducationCode(name string) (int, bool) {
	for _, l := range EducationLevels {
		if l.Name == name {
			return l.Code, true
		}
	}
	return 0, false
}

// EducationName resolves a code to its display name, or "" when unknown.
func EducationName(code int) string {
	for _, l := range EducationLevels {
		if l.Code == code {
			return l.Name
		}
	}
	return ""
}
