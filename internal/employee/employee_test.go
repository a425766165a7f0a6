package employee

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "hrconsole/pkg/domain-errors"
)

type EmployeeSuite struct {
	suite.Suite
}

func TestEmployeeSuite(t *testing.T) {
	suite.Run(t, new(EmployeeSuite))
}

func (s *EmployeeSuite) TestDecodeAttrition() {
	cases := map[string]Attrition{
		`{"id":1,"age":30,"attrition":"Yes"}`: AttritionYes,
		`{"id":1,"age":30,"attrition":"No"}`:  AttritionNo,
		`{"id":1,"age":30,"attrition":true}`:  AttritionYes,
		`{"id":1,"age":30,"attrition":false}`: AttritionNo,
		`{"id":1,"age":30,"attrition":null}`:  "",
		`{"id":1,"age":30}`:                   "",
	}
	for payload, want := range cases {
		s.T().Run(payload, func(t *testing.T) {
			var e Employee
			require.NoError(t, json.Unmarshal([]byte(payload), &e))
			assert.Equal(t, want, e.Attrition)
			assert.Equal(t, want == AttritionYes, e.Departed())
		})
	}
}

func (s *EmployeeSuite) TestStatusLabel() {
	s.Equal("Left Company", Employee{Attrition: AttritionYes}.Status())
	s.Equal("Active", Employee{Attrition: AttritionNo}.Status())
	s.Equal("Active", Employee{}.Status())
}

func (s *EmployeeSuite) TestFeaturesFromPartialFormCarryDefaults() {
	form := FormFromValues(url.Values{
		"age":              {"34"},
		"department":       {"Sales"},
		"job_role":         {"Sales Executive"},
		"salary":           {"5230.5"},
		"education":        {"Master"},
		"years_at_company": {"6"},
	})

	f, err := form.Features()
	s.Require().NoError(err)

	s.Equal(Features{
		Age:                     34,
		Department:              "Sales",
		JobRole:                 "Sales Executive",
		MonthlyIncome:           5231,
		Education:               4,
		YearsAtCompany:          6,
		JobSatisfaction:         3,
		WorkLifeBalance:         3,
		EnvironmentSatisfaction: 3,
		StandardHours:           80,
		EmployeeCount:           1,
		Over18:                  "Y",
	}, f)
}

func (s *EmployeeSuite) TestFeaturesKeepExplicitScores() {
	form := validForm()
	form.JobSatisfaction = "1"
	form.WorkLifeBalance = "4"

	f, err := form.Features()
	s.Require().NoError(err)
	s.Equal(1, f.JobSatisfaction)
	s.Equal(4, f.WorkLifeBalance)
	s.Equal(3, f.EnvironmentSatisfaction)
}

func (s *EmployeeSuite) TestFeaturesJSONShape() {
	f, err := validForm().Features()
	s.Require().NoError(err)

	data, err := json.Marshal(f)
	s.Require().NoError(err)
	s.JSONEq(`{
		"age": 41, "department": "IT", "job_role": "Analyst", "monthly_income": 4000,
		"education": 3, "years_at_company": 2, "job_satisfaction": 3, "work_life_balance": 3,
		"environment_satisfaction": 3, "standard_hours": 80, "employee_count": 1, "over_18": "Y"
	}`, string(data))
}

func (s *EmployeeSuite) TestDraftDefaults() {
	d, err := validForm().Draft()
	s.Require().NoError(err)

	data, err := json.Marshal(d)
	s.Require().NoError(err)

	var payload map[string]any
	s.Require().NoError(json.Unmarshal(data, &payload))
	s.Equal("No", payload["attrition"])
	s.EqualValues(80, payload["standard_hours"])
	s.EqualValues(1, payload["employee_count"])
	s.Equal("Y", payload["over_18"])
	s.EqualValues(3, payload["job_satisfaction"])
	s.EqualValues(3, payload["work_life_balance"])
	s.EqualValues(3, payload["environment_satisfaction"])
}

func (s *EmployeeSuite) TestFormValidation() {
	s.T().Run("missing fields", func(t *testing.T) {
		_, err := Form{}.Features()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "age: required")
		assert.Contains(t, err.Error(), "salary: required")
	})

	s.T().Run("non numeric age", func(t *testing.T) {
		form := validForm()
		form.Age = "forty"
		_, err := form.Features()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "age: must be a number")
	})

	s.T().Run("unknown education", func(t *testing.T) {
		form := validForm()
		form.Education = "PhD"
		_, err := form.Features()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), `education: unknown level "PhD"`)
	})

	s.T().Run("score out of range", func(t *testing.T) {
		form := validForm()
		form.JobSatisfaction = "5"
		_, err := form.Features()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "job_satisfaction")
	})
}

func (s *EmployeeSuite) TestFeaturesFromEmployee() {
	dept, role, income := "HR", "HR Manager", 6100
	e := Employee{ID: 7, Age: 50, Department: &dept, JobRole: &role, MonthlyIncome: &income}

	f := FeaturesFromEmployee(e)

	s.Equal(50, f.Age)
	s.Equal("HR", f.Department)
	s.Equal("HR Manager", f.JobRole)
	s.Equal(6100, f.MonthlyIncome)
	s.Equal(DefaultStandardHours, f.StandardHours)
	s.Equal(DefaultEmployeeCount, f.EmployeeCount)
	s.Equal(DefaultOver18, f.Over18)
	s.Equal(DefaultSatisfaction, f.JobSatisfaction)
}

func (s *EmployeeSuite) TestEditFormPatch() {
	s.T().Run("only filled fields are sent", func(t *testing.T) {
		p, err := EditFormFromValues(url.Values{
			"salary":    {"7000.4"},
			"education": {"Doctor"},
			"attrition": {"Yes"},
			"job_role":  {""},
		}).Patch()
		require.NoError(t, err)

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"monthly_income":7000,"education":5,"attrition":"Yes"}`, string(data))
	})

	s.T().Run("empty patch is rejected", func(t *testing.T) {
		_, err := EditForm{}.Patch()
		require.Error(t, err)
		assert.Equal(t, "nothing to update", err.Error())
	})

	s.T().Run("bad attrition", func(t *testing.T) {
		_, err := EditForm{Attrition: "maybe"}.Patch()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *EmployeeSuite) TestEducationCatalog() {
	code, ok := EducationCode("Bachelor")
	s.True(ok)
	s.Equal(3, code)
	_, ok = EducationCode("bachelor")
	s.False(ok)
	s.Equal("Below College", EducationName(1))
	s.Equal("", EducationName(9))
}

func validForm() Form {
	return Form{
		Age:            "41",
		Department:     "IT",
		JobRole:        "Analyst",
		Salary:         "4000",
		Education:      "Bachelor",
		YearsAtCompany: "2",
	}
}
