package employee

// Values the prediction model requires but the forms never ask for.
const (
	DefaultStandardHours = 80
	DefaultEmployeeCount = 1
	DefaultOver18        = "Y"
	DefaultSatisfaction  = 3
	DefaultAttrition     = AttritionNo
)

// Features is the flattened vector posted to /predict/single. It is the one
// canonical prediction payload; every caller builds it through this type.
type Features struct {
	Age                     int    `json:"age"`
	Department              string `json:"department"`
	JobRole                 string `json:"job_role"`
	MonthlyIncome           int    `json:"monthly_income"`
	Education               int    `json:"education"`
	YearsAtCompany          int    `json:"years_at_company"`
	JobSatisfaction         int    `json:"job_satisfaction"`
	WorkLifeBalance         int    `json:"work_life_balance"`
	EnvironmentSatisfaction int    `json:"environment_satisfaction"`
	StandardHours           int    `json:"standard_hours"`
	EmployeeCount           int    `json:"employee_count"`
	Over18                  string `json:"over_18"`
}

// WithDefaults fills every unset model field with its central default.
func (f Features) WithDefaults() Features {
	if f.StandardHours == 0 {
		f.StandardHours = DefaultStandardHours
	}
	if f.EmployeeCount == 0 {
		f.EmployeeCount = DefaultEmployeeCount
	}
	if f.Over18 == "" {
		f.Over18 = DefaultOver18
	}
	if f.JobSatisfaction == 0 {
		f.JobSatisfaction = DefaultSatisfaction
	}
	if f.WorkLifeBalance == 0 {
		f.WorkLifeBalance = DefaultSatisfaction
	}
	if f.EnvironmentSatisfaction == 0 {
		f.EnvironmentSatisfaction = DefaultSatisfaction
	}
	return f
}

// FeaturesFromEmployee projects a fetched record onto the prediction vector.
// Unknown attributes fall back to the defaults.
func FeaturesFromEmployee(e Employee) Features {
	return Features{
		Age:                     e.Age,
		Department:              deref(e.Department),
		JobRole:                 deref(e.JobRole),
		MonthlyIncome:           deref(e.MonthlyIncome),
		Education:               deref(e.Education),
		YearsAtCompany:          deref(e.YearsAtCompany),
		JobSatisfaction:         deref(e.JobSatisfaction),
		WorkLifeBalance:         deref(e.WorkLifeBalance),
		EnvironmentSatisfaction: deref(e.EnvironmentSatisfaction),
		StandardHours:           deref(e.StandardHours),
		EmployeeCount:           e.EmployeeCount,
		Over18:                  deref(e.Over18),
	}.WithDefaults()
}

// Draft is the create payload: the prediction features plus the attrition flag.
type Draft struct {
	Features
	Attrition Attrition `json:"attrition"`
}

// NewDraft applies the create defaults to f.
func NewDraft(f Features) Draft {
	return Draft{Features: f.WithDefaults(), Attrition: DefaultAttrition}
}

// Patch is a partial update. Nil fields are not sent.
type Patch struct {
	Age                     *int       `json:"age,omitempty"`
	Department              *string    `json:"department,omitempty"`
	JobRole                 *string    `json:"job_role,omitempty"`
	MonthlyIncome           *int       `json:"monthly_income,omitempty"`
	Education               *int       `json:"education,omitempty"`
	YearsAtCompany          *int       `json:"years_at_company,omitempty"`
	JobSatisfaction         *int       `json:"job_satisfaction,omitempty"`
	WorkLifeBalance         *int       `json:"work_life_balance,omitempty"`
	EnvironmentSatisfaction *int       `json:"environment_satisfaction,omitempty"`
	Attrition               *Attrition `json:"attrition,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}
