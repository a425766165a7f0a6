package console

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
	"hrconsole/internal/filter"
	"hrconsole/internal/views"
)

type employeesPage struct {
	views.Page
	Statuses []filter.Status
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var flash *Flash
	status := http.StatusOK
	criteria, err := filter.Criteria{
		Search:     q.Get("search"),
		Department: q.Get("department"),
		Status:     filter.Status(q.Get("status")),
	}.Normalize()
	if err != nil {
		flash = &Flash{Kind: FlashError, Message: err.Error()}
		status = http.StatusBadRequest
		criteria = filter.Default()
	}

	if !h.view.Loaded() || q.Get("refresh") != "" {
		if _, err := h.view.Refresh(ctx); err != nil {
			var handled bool
			flash, status, handled = h.failure(w, r, err, "list employees")
			if handled {
				return
			}
		}
	}

	page := employeesPage{
		Page:     h.view.Visible(criteria),
		Statuses: []filter.Status{filter.StatusAll, filter.StatusYes, filter.StatusNo},
	}
	h.render(w, r, status, "employees", "Employees", page, flash)
}

type employeeFormPage struct {
	Form        any
	Departments []string
	JobRoles    []string
	Education   []employee.EducationLevel
	Scores      []int
	Employee    *employee.Employee
}

func newEmployeeFormPage(form any) employeeFormPage {
	return employeeFormPage{
		Form:        form,
		Departments: employee.Departments,
		JobRoles:    employee.JobRoles,
		Education:   employee.EducationLevels,
		Scores:      []int{1, 2, 3, 4},
	}
}

func (h *Handler) handleAddEmployeePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "employee_add", "Add employee", newEmployeeFormPage(employee.Form{}), nil)
}

func (h *Handler) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "employee_add", "Add employee", newEmployeeFormPage(employee.Form{}), &Flash{Kind: FlashError, Message: "invalid form submission"})
		return
	}
	form := employee.FormFromValues(r.PostForm)

	draft, err := form.Draft()
	if err != nil {
		h.render(w, r, statusFor(err), "employee_add", "Add employee", newEmployeeFormPage(form), &Flash{Kind: FlashError, Message: err.Error()})
		return
	}

	created, err := h.employees.Create(ctx, draft)
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "create employee")
		if handled {
			return
		}
		h.render(w, r, status, "employee_add", "Add employee", newEmployeeFormPage(form), flash)
		return
	}

	h.logger.InfoContext(ctx, "employee created", "employee_id", created.ID)
	h.view.Invalidate()
	setFlash(w, FlashSuccess, "Employee added successfully")
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

type employeeDetailPage struct {
	Employee   *employee.Employee
	Prediction *api.Prediction
}

func (h *Handler) loadEmployee(w http.ResponseWriter, r *http.Request) (*employee.Employee, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return nil, false
	}
	e, err := h.employees.Get(r.Context(), id)
	if err != nil {
		flash, _, handled := h.failure(w, r, err, "load employee")
		if handled {
			return nil, false
		}
		if api.IsNotFound(err) {
			flash.Message = "Employee not found"
		}
		setFlash(w, flash.Kind, flash.Message)
		http.Redirect(w, r, "/employees", http.StatusSeeOther)
		return nil, false
	}
	return e, true
}

func (h *Handler) handleEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "employee", "Employee #"+strconv.FormatInt(e.ID, 10), employeeDetailPage{Employee: e}, nil)
}

func (h *Handler) handlePredictEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	title := "Employee #" + strconv.FormatInt(e.ID, 10)

	prediction, err := h.predictions.Single(r.Context(), employee.FeaturesFromEmployee(*e))
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "predict employee")
		if handled {
			return
		}
		h.render(w, r, status, "employee", title, employeeDetailPage{Employee: e}, flash)
		return
	}
	h.render(w, r, http.StatusOK, "employee", title, employeeDetailPage{Employee: e, Prediction: prediction},
		&Flash{Kind: FlashSuccess, Message: "Prediction complete"})
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	if err := h.employees.Delete(ctx, id); err != nil {
		flash, _, handled := h.failure(w, r, err, "delete employee")
		if handled {
			return
		}
		setFlash(w, flash.Kind, flash.Message)
		http.Redirect(w, r, "/employees/"+url.PathEscape(chi.URLParam(r, "id")), http.StatusSeeOther)
		return
	}

	h.logger.InfoContext(ctx, "employee deleted", "employee_id", id)
	h.view.Remove(id)
	setFlash(w, FlashSuccess, "Employee deleted")
	http.Redirect(w, r, "/employees", http.StatusSeeOther)
}

func editFormFor(e *employee.Employee) employee.EditForm {
	str := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}
	form := employee.EditForm{
		Age:                     strconv.Itoa(e.Age),
		Department:              e.DepartmentName(),
		JobRole:                 e.JobRoleName(),
		Salary:                  str(e.MonthlyIncome),
		YearsAtCompany:          str(e.YearsAtCompany),
		JobSatisfaction:         str(e.JobSatisfaction),
		WorkLifeBalance:         str(e.WorkLifeBalance),
		EnvironmentSatisfaction: str(e.EnvironmentSatisfaction),
		Attrition:               string(e.Attrition),
	}
	if e.Education != nil {
		form.Education = employee.EducationName(*e.Education)
	}
	return form
}

func (h *Handler) handleEditEmployeePage(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadEmployee(w, r)
	if !ok {
		return
	}
	page := newEmployeeFormPage(editFormFor(e))
	page.Employee = e
	h.render(w, r, http.StatusOK, "employee_edit", "Edit employee", page, nil)
}

func (h *Handler) handleEditEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	form := employee.EditFormFromValues(r.PostForm)
	page := newEmployeeFormPage(form)
	page.Employee = &employee.Employee{ID: id}

	patch, err := form.Patch()
	if err != nil {
		h.render(w, r, statusFor(err), "employee_edit", "Edit employee", page, &Flash{Kind: FlashError, Message: err.Error()})
		return
	}

	if _, err := h.employees.Update(ctx, id, patch); err != nil {
		flash, status, handled := h.failure(w, r, err, "update employee")
		if handled {
			return
		}
		h.render(w, r, status, "employee_edit", "Edit employee", page, flash)
		return
	}

	h.logger.InfoContext(ctx, "employee updated", "employee_id", id)
	h.view.Invalidate()
	setFlash(w, FlashSuccess, "Employee updated")
	http.Redirect(w, r, "/employees/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}
