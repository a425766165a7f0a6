package views

import (
	"context"
	"slices"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
	"hrconsole/internal/filter"
)

// Lister fetches the employee collection.
type Lister interface {
	List(ctx context.Context, params api.ListParams) ([]employee.Employee, error)
}

// Page is what the employee table renders.
type Page struct {
	Employees   []employee.Employee
	Total       int
	Departments []string
	Criteria    filter.Criteria
}

// Summary is the caption under the table.
func (p Page) Summary() string {
	return filter.Summary(len(p.Employees), p.Total)
}

// EmployeeView caches the last fetched collection. Filtering runs locally over
// that collection and never waits on a fetch.
type EmployeeView struct {
	lister Lister
	limit  int
	latest Latest[[]employee.Employee]
}

func NewEmployeeView(lister Lister, limit int) *EmployeeView {
	return &EmployeeView{lister: lister, limit: limit}
}

// Refresh fetches the collection. applied is false when a newer refresh was
// issued while this one was in flight; its result is then discarded.
func (v *EmployeeView) Refresh(ctx context.Context) (applied bool, err error) {
	ticket := v.latest.Begin()
	list, err := v.lister.List(ctx, api.ListParams{Limit: v.limit})
	if err != nil {
		return false, err
	}
	return v.latest.Commit(ticket, list), nil
}

// Loaded reports whether a collection is cached.
func (v *EmployeeView) Loaded() bool {
	_, ok := v.latest.Get()
	return ok
}

// Visible applies c to the cached collection.
func (v *EmployeeView) Visible(c filter.Criteria) Page {
	all, _ := v.latest.Get()
	return Page{
		Employees:   filter.Apply(all, c),
		Total:       len(all),
		Departments: filter.Departments(all),
		Criteria:    c,
	}
}

// Remove drops a deleted employee from the cached collection.
func (v *EmployeeView) Remove(id int64) {
	v.latest.Update(func(list []employee.Employee) []employee.Employee {
		return slices.DeleteFunc(slices.Clone(list), func(e employee.Employee) bool {
			return e.ID == id
		})
	})
}

// Invalidate forgets the cached collection so the next page view refetches.
func (v *EmployeeView) Invalidate() {
	v.latest.Reset()
}
