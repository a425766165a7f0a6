// Package employee defines the employee read model and the payloads the console
// sends back to the backend: create drafts, partial updates and prediction features.
package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attrition is the backend's "Yes"/"No" departure flag.
type Attrition string

const (
	AttritionYes Attrition = "Yes"
	AttritionNo  Attrition = "No"
)

// UnmarshalJSON accepts the canonical strings as well as booleans, which some
// backend builds emit. null leaves the value unknown.
func (a *Attrition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		*a = ""
		return nil
	case "true":
		*a = AttritionYes
		return nil
	case "false":
		*a = AttritionNo
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("attrition: %w", err)
	}
	*a = Attrition(s)
	return nil
}

// Employee is one record as returned by the backend. Optional attributes are
// pointers; nil means the backend did not report a value. Fetched records are
// shown as-is, without range checks.
type Employee struct {
	ID                       int64     `json:"id"`
	Age                      int       `json:"age"`
	BusinessTravel           *string   `json:"business_travel,omitempty"`
	DailyRate                *int      `json:"daily_rate,omitempty"`
	Department               *string   `json:"department,omitempty"`
	DistanceFromHome         *int      `json:"distance_from_home,omitempty"`
	Education                *int      `json:"education,omitempty"`
	EducationField           *string   `json:"education_field,omitempty"`
	EmployeeCount            int       `json:"employee_count"`
	EmployeeNumber           *int      `json:"employee_number,omitempty"`
	EnvironmentSatisfaction  *int      `json:"environment_satisfaction,omitempty"`
	Gender                   *string   `json:"gender,omitempty"`
	HourlyRate               *int      `json:"hourly_rate,omitempty"`
	JobInvolvement           *int      `json:"job_involvement,omitempty"`
	JobLevel                 *int      `json:"job_level,omitempty"`
	JobRole                  *string   `json:"job_role,omitempty"`
	JobSatisfaction          *int      `json:"job_satisfaction,omitempty"`
	MaritalStatus            *string   `json:"marital_status,omitempty"`
	MonthlyIncome            *int      `json:"monthly_income,omitempty"`
	MonthlyRate              *int      `json:"monthly_rate,omitempty"`
	NumCompaniesWorked       *int      `json:"num_companies_worked,omitempty"`
	Over18                   *string   `json:"over_18,omitempty"`
	OverTime                 *string   `json:"over_time,omitempty"`
	PercentSalaryHike        *int      `json:"percent_salary_hike,omitempty"`
	PerformanceRating        *int      `json:"performance_rating,omitempty"`
	RelationshipSatisfaction *int      `json:"relationship_satisfaction,omitempty"`
	StandardHours            *int      `json:"standard_hours,omitempty"`
	StockOptionLevel         *int      `json:"stock_option_level,omitempty"`
	TotalWorkingYears        *int      `json:"total_working_years,omitempty"`
	TrainingTimesLastYear    *int      `json:"training_times_last_year,omitempty"`
	WorkLifeBalance          *int      `json:"work_life_balance,omitempty"`
	YearsAtCompany           *int      `json:"years_at_company,omitempty"`
	YearsInCurrentRole       *int      `json:"years_in_current_role,omitempty"`
	YearsSinceLastPromotion  *int      `json:"years_since_last_promotion,omitempty"`
	YearsWithCurrManager     *int      `json:"years_with_curr_manager,omitempty"`
	Attrition                Attrition `json:"attrition,omitempty"`
}

// Departed reports whether the employee has left the company.
func (e Employee) Departed() bool {
	return e.Attrition == AttritionYes
}

// Status is the label shown next to the employee.
func (e Employee) Status() string {
	if e.Departed() {
		return "Left Company"
	}
	return "Active"
}

// DepartmentName returns the department or "" when unknown.
func (e Employee) DepartmentName() string {
	return deref(e.Department)
}

// JobRoleName returns the job role or "" when unknown.
func (e Employee) JobRoleName() string {
	return deref(e.JobRole)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
