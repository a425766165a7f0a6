// Package filter computes the visible subset of an already fetched employee list.
//
// Apply is pure: it never mutates its input, keeps the input order, and returns
// the same result for the same collection and criteria.
package filter

import (
	"fmt"
	"strings"

	"hrconsole/internal/employee"
	dErrors "hrconsole/pkg/domain-errors"
)

// All is the sentinel that disables the department and status criteria.
const All = "all"

// Status selects employees by departure.
type Status string

const (
	StatusAll Status = All
	StatusYes Status = "yes"
	StatusNo  Status = "no"
)

// Criteria are the user-entered filters. They are never persisted.
type Criteria struct {
	Search     string
	Department string
	Status     Status
}

// Default matches everything.
func Default() Criteria {
	return Criteria{Department: All, Status: StatusAll}
}

// Normalize maps empty department and status to All and rejects unknown statuses.
func (c Criteria) Normalize() (Criteria, error) {
	c.Search = strings.TrimSpace(c.Search)
	if c.Department == "" {
		c.Department = All
	}
	switch Status(strings.ToLower(string(c.Status))) {
	case "", StatusAll:
		c.Status = StatusAll
	case StatusYes:
		c.Status = StatusYes
	case StatusNo:
		c.Status = StatusNo
	default:
		return Criteria{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("status: must be one of [all yes no], got %q", c.Status))
	}
	return c, nil
}

// Active reports whether any criterion narrows the collection.
func (c Criteria) Active() bool {
	return c.Search != "" || (c.Department != "" && c.Department != All) || (c.Status != "" && c.Status != StatusAll)
}

// Apply returns the employees matching every criterion, in input order.
func Apply(employees []employee.Employee, c Criteria) []employee.Employee {
	query := strings.ToLower(c.Search)
	out := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		if matchesSearch(e, query) && matchesDepartment(e, c.Department) && matchesStatus(e, c.Status) {
			out = append(out, e)
		}
	}
	return out
}

func matchesSearch(e employee.Employee, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.JobRoleName()), query) ||
		strings.Contains(strings.ToLower(e.DepartmentName()), query)
}

func matchesDepartment(e employee.Employee, department string) bool {
	if department == "" || department == All {
		return true
	}
	return e.DepartmentName() == department
}

func matchesStatus(e employee.Employee, status Status) bool {
	switch status {
	case StatusYes:
		return e.Departed()
	case StatusNo:
		return !e.Departed()
	default:
		return true
	}
}

// Departments lists the distinct non-empty departments in first-seen order.
func Departments(employees []employee.Employee) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range employees {
		d := e.DepartmentName()
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Summary is the caption under the employee table.
func Summary(visible, total int) string {
	return fmt.Sprintf("Showing %d of %d employees", visible, total)
}
