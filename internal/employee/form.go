package employee

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	dErrors "hrconsole/pkg/domain-errors"
	"hrconsole/pkg/validation"
)

// Form is the minimal employee form shared by the create page, the prediction
// page and hrctl. Salary is entered as a decimal amount and rounded.
type Form struct {
	Age                     string `form:"age" validate:"required,number"`
	Department              string `form:"department" validate:"required"`
	JobRole                 string `form:"job_role" validate:"required"`
	Salary                  string `form:"salary" validate:"required,numeric"`
	Education               string `form:"education" validate:"required"`
	YearsAtCompany          string `form:"years_at_company" validate:"required,number"`
	JobSatisfaction         string `form:"job_satisfaction" validate:"omitempty,oneof=1 2 3 4"`
	WorkLifeBalance         string `form:"work_life_balance" validate:"omitempty,oneof=1 2 3 4"`
	EnvironmentSatisfaction string `form:"environment_satisfaction" validate:"omitempty,oneof=1 2 3 4"`
}

// FormFromValues reads a submitted form.
func FormFromValues(v url.Values) Form {
	get := func(key string) string { return strings.TrimSpace(v.Get(key)) }
	return Form{
		Age:                     get("age"),
		Department:              get("department"),
		JobRole:                 get("job_role"),
		Salary:                  get("salary"),
		Education:               get("education"),
		YearsAtCompany:          get("years_at_company"),
		JobSatisfaction:         get("job_satisfaction"),
		WorkLifeBalance:         get("work_life_balance"),
		EnvironmentSatisfaction: get("environment_satisfaction"),
	}
}

// Features validates the form and converts it to a prediction vector.
func (f Form) Features() (Features, error) {
	if err := validation.Validate(&f); err != nil {
		return Features{}, err
	}
	education, ok := EducationCode(f.Education)
	if !ok {
		return Features{}, dErrors.New(dErrors.CodeValidation, "education: unknown level "+strconv.Quote(f.Education))
	}
	salary, err := strconv.ParseFloat(f.Salary, 64)
	if err != nil {
		return Features{}, dErrors.Wrap(err, dErrors.CodeValidation, "salary: must be a number")
	}

	return Features{
		Age:                     atoi(f.Age),
		Department:              f.Department,
		JobRole:                 f.JobRole,
		MonthlyIncome:           roundHalfUp(salary),
		Education:               education,
		YearsAtCompany:          atoi(f.YearsAtCompany),
		JobSatisfaction:         atoi(f.JobSatisfaction),
		WorkLifeBalance:         atoi(f.WorkLifeBalance),
		EnvironmentSatisfaction: atoi(f.EnvironmentSatisfaction),
	}.WithDefaults(), nil
}

// Draft validates the form and builds a create payload.
func (f Form) Draft() (Draft, error) {
	features, err := f.Features()
	if err != nil {
		return Draft{}, err
	}
	return NewDraft(features), nil
}

// EditForm is the update form. Blank fields are left unchanged.
type EditForm struct {
	Age                     string `form:"age" validate:"omitempty,number"`
	Department              string `form:"department"`
	JobRole                 string `form:"job_role"`
	Salary                  string `form:"salary" validate:"omitempty,numeric"`
	Education               string `form:"education"`
	YearsAtCompany          string `form:"years_at_company" validate:"omitempty,number"`
	JobSatisfaction         string `form:"job_satisfaction" validate:"omitempty,oneof=1 2 3 4"`
	WorkLifeBalance         string `form:"work_life_balance" validate:"omitempty,oneof=1 2 3 4"`
	EnvironmentSatisfaction string `form:"environment_satisfaction" validate:"omitempty,oneof=1 2 3 4"`
	Attrition               string `form:"attrition" validate:"omitempty,oneof=Yes No"`
}

func EditFormFromValues(v url.Values) EditForm {
	get := func(key string) string { return strings.TrimSpace(v.Get(key)) }
	return EditForm{
		Age:                     get("age"),
		Department:              get("department"),
		JobRole:                 get("job_role"),
		Salary:                  get("salary"),
		Education:               get("education"),
		YearsAtCompany:          get("years_at_company"),
		JobSatisfaction:         get("job_satisfaction"),
		WorkLifeBalance:         get("work_life_balance"),
		EnvironmentSatisfaction: get("environment_satisfaction"),
		Attrition:               get("attrition"),
	}
}

// Patch validates the edit form and returns only the fields that were filled in.
func (f EditForm) Patch() (Patch, error) {
	if err := validation.Validate(&f); err != nil {
		return Patch{}, err
	}

	var p Patch
	p.Age = optionalInt(f.Age)
	p.Department = optionalString(f.Department)
	p.JobRole = optionalString(f.JobRole)
	p.YearsAtCompany = optionalInt(f.YearsAtCompany)
	p.JobSatisfaction = optionalInt(f.JobSatisfaction)
	p.WorkLifeBalance = optionalInt(f.WorkLifeBalance)
	p.EnvironmentSatisfaction = optionalInt(f.EnvironmentSatisfaction)

	if f.Salary != "" {
		salary, err := strconv.ParseFloat(f.Salary, 64)
		if err != nil {
			return Patch{}, dErrors.Wrap(err, dErrors.CodeValidation, "salary: must be a number")
		}
		income := roundHalfUp(salary)
		p.MonthlyIncome = &income
	}
	if f.Education != "" {
		code, ok := EducationCode(f.Education)
		if !ok {
			return Patch{}, dErrors.New(dErrors.CodeValidation, "education: unknown level "+strconv.Quote(f.Education))
		}
		p.Education = &code
	}
	if f.Attrition != "" {
		a := Attrition(f.Attrition)
		p.Attrition = &a
	}

	if p.Empty() {
		return Patch{}, dErrors.New(dErrors.CodeValidation, "nothing to update")
	}
	return p, nil
}

// roundHalfUp rounds .5 towards positive infinity, as the browser forms did.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// atoi is only called on values the validator already accepted.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	n := atoi(s)
	return &n
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
