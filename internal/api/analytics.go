package api

import (
	"context"
	"net/http"
)

// DashboardStats are the headline aggregates. Rates are percentages.
type DashboardStats struct {
	TotalEmployees  int     `json:"totalEmployees"`
	AttritionRate   float64 `json:"attritionRate"`
	AverageAge      float64 `json:"averageAge"`
	AverageSalary   float64 `json:"averageSalary"`
	JobSatisfaction float64 `json:"jobSatisfaction"`
}

// Breakdown is one aggregate row; Label is the department, salary range or role.
type Breakdown struct {
	Label         string
	Total         int
	Attrition     int
	AttritionRate float64
}

type DepartmentStat struct {
	Department    string  `json:"department"`
	Total         int     `json:"total"`
	Attrition     int     `json:"attrition"`
	AttritionRate float64 `json:"attritionRate"`
}

type SalaryStat struct {
	Range         string  `json:"range"`
	Total         int     `json:"total"`
	Attrition     int     `json:"attrition"`
	AttritionRate float64 `json:"attritionRate"`
}

type RoleStat struct {
	Role          string  `json:"role"`
	Total         int     `json:"total"`
	Attrition     int     `json:"attrition"`
	AttritionRate float64 `json:"attritionRate"`
}

func (d DepartmentStat) Breakdown() Breakdown {
	return Breakdown{Label: d.Department, Total: d.Total, Attrition: d.Attrition, AttritionRate: d.AttritionRate}
}

func (s SalaryStat) Breakdown() Breakdown {
	return Breakdown{Label: s.Range, Total: s.Total, Attrition: s.Attrition, AttritionRate: s.AttritionRate}
}

func (r RoleStat) Breakdown() Breakdown {
	return Breakdown{Label: r.Role, Total: r.Total, Attrition: r.Attrition, AttritionRate: r.AttritionRate}
}

// Breakdowns converts any stat rows into their common shape.
func Breakdowns[T interface{ Breakdown() Breakdown }](rows []T) []Breakdown {
	out := make([]Breakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Breakdown())
	}
	return out
}

type AnalyticsService struct {
	client *Client
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var out DashboardStats
	if err := s.client.Do(ctx, Request{Method: http.MethodGet, Path: "/analytics/dashboard"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AnalyticsService) ByDepartment(ctx context.Context) ([]DepartmentStat, error) {
	return getRows[DepartmentStat](ctx, s.client, "/analytics/department")
}

func (s *AnalyticsService) BySalary(ctx context.Context) ([]SalaryStat, error) {
	return getRows[SalaryStat](ctx, s.client, "/analytics/salary")
}

func (s *AnalyticsService) ByRole(ctx context.Context) ([]RoleStat, error) {
	return getRows[RoleStat](ctx, s.client, "/analytics/role")
}

func getRows[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var out []T
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: path}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
