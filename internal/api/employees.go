package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"hrconsole/internal/employee"
)

const employeeRoute = "/employees/{id}"

// ListParams are passed to the backend as query parameters. Zero values are omitted.
type ListParams struct {
	Search     string
	Department string
	Attrition  *bool
	Limit      int
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Department != "" {
		q.Set("department", p.Department)
	}
	if p.Attrition != nil {
		q.Set("attrition", strconv.FormatBool(*p.Attrition))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

type EmployeeService struct {
	client *Client
}

func (s *EmployeeService) List(ctx context.Context, params ListParams) ([]employee.Employee, error) {
	var out []employee.Employee
	err := s.client.Do(ctx, Request{Method: http.MethodGet, Path: "/employees/", Query: params.values()}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (*employee.Employee, error) {
	var out employee.Employee
	if err := s.client.Do(ctx, Request{Method: http.MethodGet, Path: employeePath(id), Route: employeeRoute}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EmployeeService) Create(ctx context.Context, draft employee.Draft) (*employee.Employee, error) {
	var out employee.Employee
	if err := s.client.Do(ctx, Request{Method: http.MethodPost, Path: "/employees/", Body: draft}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EmployeeService) Update(ctx context.Context, id int64, patch employee.Patch) (*employee.Employee, error) {
	var out employee.Employee
	req := Request{Method: http.MethodPut, Path: employeePath(id), Route: employeeRoute, Body: patch}
	if err := s.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	return s.client.Do(ctx, Request{Method: http.MethodDelete, Path: employeePath(id), Route: employeeRoute}, nil)
}

func employeePath(id int64) string {
	return "/employees/" + strconv.FormatInt(id, 10)
}
