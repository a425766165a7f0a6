// Package console serves the HR web console: server-rendered pages over the
// backend client, guarded by the process-wide session.
package console

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/api"
	"hrconsole/internal/employee"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/platform/middleware"
	"hrconsole/internal/session"
	"hrconsole/internal/views"
	dErrors "hrconsole/pkg/domain-errors"
	"hrconsole/pkg/platform/httputil"
)

//go:generate mockgen -source=console.go -destination=mocks/console_mock.go -package=mocks

// SessionService is the session surface the pages use.
type SessionService interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, creds api.Credentials) error
	Register(ctx context.Context, reg api.Registration) error
	Logout(ctx context.Context) error
}

type EmployeeService interface {
	List(ctx context.Context, params api.ListParams) ([]employee.Employee, error)
	Get(ctx context.Context, id int64) (*employee.Employee, error)
	Create(ctx context.Context, draft employee.Draft) (*employee.Employee, error)
	Update(ctx context.Context, id int64, patch employee.Patch) (*employee.Employee, error)
	Delete(ctx context.Context, id int64) error
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*api.DashboardStats, error)
	ByDepartment(ctx context.Context) ([]api.DepartmentStat, error)
	BySalary(ctx context.Context) ([]api.SalaryStat, error)
	ByRole(ctx context.Context) ([]api.RoleStat, error)
}

type PredictionService interface {
	Single(ctx context.Context, features employee.Features) (*api.Prediction, error)
	Batch(ctx context.Context, filename string, content io.Reader) (*api.BatchResult, error)
	History(ctx context.Context, limit int) ([]api.HistoryEntry, error)
}

//go:embed templates/*.html
var templateFS embed.FS

// Config carries the handler's collaborators.
type Config struct {
	Session      SessionService
	Employees    EmployeeService
	Analytics    AnalyticsService
	Predictions  PredictionService
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	ListLimit    int
	HistoryLimit int
	// MaxUploadBytes bounds batch CSV uploads.
	MaxUploadBytes int64
}

// Handler renders the console pages.
type Handler struct {
	session      SessionService
	employees    EmployeeService
	analytics    AnalyticsService
	predictions  PredictionService
	logger       *slog.Logger
	metrics      *metrics.Metrics
	view         *views.EmployeeView
	pages        map[string]*template.Template
	historyLimit int
	maxUpload    int64
}

// New parses the templates and builds the handler.
func New(cfg Config) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		session:      cfg.Session,
		employees:    cfg.Employees,
		analytics:    cfg.Analytics,
		predictions:  cfg.Predictions,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		view:         views.NewEmployeeView(cfg.Employees, cfg.ListLimit),
		pages:        pages,
		historyLimit: cfg.HistoryLimit,
		maxUpload:    cfg.MaxUploadBytes,
	}, nil
}

// Register mounts the console routes. Cross-origin unsafe requests are refused
// because every visitor acts as the one signed-in user.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(http.NewCrossOriginProtection().Handler)
		r.Use(trackNavigation)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, string(session.RouteDashboard), http.StatusSeeOther)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireGuest)
			r.Get("/login", h.handleLoginPage)
			r.Post("/login", h.handleLogin)
			r.Get("/register", h.handleRegisterPage)
			r.Post("/register", h.handleRegister)
		})

		r.Post("/logout", h.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)
			r.Get("/dashboard", h.handleDashboard)

			r.Get("/employees", h.handleEmployees)
			r.Get("/employees/add", h.handleAddEmployeePage)
			r.Post("/employees/add", h.handleAddEmployee)
			r.Get("/employees/{id}", h.handleEmployee)
			r.Post("/employees/{id}/predict", h.handlePredictEmployee)
			r.Post("/employees/{id}/delete", h.handleDeleteEmployee)
			r.Get("/employees/{id}/edit", h.handleEditEmployeePage)
			r.Post("/employees/{id}/edit", h.handleEditEmployee)

			r.Get("/analytics", h.handleAnalytics)

			r.Get("/prediction", h.handlePredictionPage)
			r.Post("/prediction", h.handlePredict)
			r.Post("/prediction/batch", h.handleBatchPredict)

			r.Get("/settings", h.handleSettings)
		})
	})
}

// pageData is passed to every template.
type pageData struct {
	Title  string
	Active string
	User   *api.User
	Flash  *Flash
	Data   any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, title string, data any, flash *Flash) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.ErrorContext(r.Context(), "unknown page template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if flash == nil {
		flash = popFlash(w, r)
	}

	pd := pageData{Title: title, Active: page, User: h.session.Snapshot().User, Flash: flash, Data: data}
	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "layout", pd); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			"page", page,
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, buf.String())
}

// failure turns an error into a flash notification and the status the page is
// rendered with. A 401 from the backend ends the session and reports handled=true
// after redirecting to the sign-in page.
func (h *Handler) failure(w http.ResponseWriter, r *http.Request, err error, action string) (flash *Flash, status int, handled bool) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	if api.IsUnauthorized(err) && h.session.Snapshot().State == session.Authenticated {
		h.logger.InfoContext(ctx, "backend rejected session token",
			"action", action,
			"request_id", requestID,
		)
		if logoutErr := h.session.Logout(ctx); logoutErr != nil {
			h.logger.WarnContext(ctx, "failed to clear session", "error", logoutErr, "request_id", requestID)
		}
		h.view.Invalidate()
		setFlash(w, FlashError, "Your session has expired. Please sign in again.")
		h.redirectNavigated(w, r, session.RouteLogin)
		return nil, 0, true
	}

	h.logger.WarnContext(ctx, action+" failed",
		"error", err,
		"request_id", requestID,
	)
	return &Flash{Kind: FlashError, Message: err.Error()}, statusFor(err), false
}

func statusFor(err error) int {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 0 || apiErr.Status >= 500 {
			return http.StatusBadGateway
		}
		return apiErr.Status
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return httputil.DomainCodeToHTTPStatus(domainErr.Code)
	}
	return http.StatusInternalServerError
}

func parsePages() (map[string]*template.Template, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

var templateFuncs = template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"probability": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"money": func(v float64) string { return fmt.Sprintf("$%.0f", v) },
	"decimal": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"education": employee.EducationName,
	"intOr": func(p *int, fallback string) string {
		if p == nil {
			return fallback
		}
		return fmt.Sprint(*p)
	},
	"strOr": func(p *string, fallback string) string {
		if p == nil || *p == "" {
			return fallback
		}
		return *p
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"same": func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
}
