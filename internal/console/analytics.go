package console

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"hrconsole/internal/api"
)

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "load dashboard")
		if handled {
			return
		}
		h.render(w, r, status, "dashboard", "Dashboard", (*api.DashboardStats)(nil), flash)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", stats, nil)
}

type analyticsPage struct {
	Departments []api.Breakdown
	Salaries    []api.Breakdown
	Roles       []api.Breakdown
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	page, err := h.gatherAnalytics(r.Context())
	if err != nil {
		flash, status, handled := h.failure(w, r, err, "load analytics")
		if handled {
			return
		}
		h.render(w, r, status, "analytics", "Analytics", analyticsPage{}, flash)
		return
	}
	h.render(w, r, http.StatusOK, "analytics", "Analytics", page, nil)
}

// gatherAnalytics fetches the three breakdowns concurrently. Each goroutine
// writes only its own field; the first failure cancels the rest.
func (h *Handler) gatherAnalytics(ctx context.Context) (analyticsPage, error) {
	var page analyticsPage
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := h.analytics.ByDepartment(ctx)
		if err != nil {
			return err
		}
		page.Departments = api.Breakdowns(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := h.analytics.BySalary(ctx)
		if err != nil {
			return err
		}
		page.Salaries = api.Breakdowns(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := h.analytics.ByRole(ctx)
		if err != nil {
			return err
		}
		page.Roles = api.Breakdowns(rows)
		return nil
	})

	if err := g.Wait(); err != nil {
		return analyticsPage{}, err
	}
	return page, nil
}
