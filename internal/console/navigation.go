package console

import (
	"context"
	"net/http"
	"sync"

	"hrconsole/internal/session"
)

// Navigator records session navigation on the request that caused it. The
// handler turns the recorded route into a redirect.
type Navigator struct{}

func NewNavigator() Navigator {
	return Navigator{}
}

func (Navigator) Navigate(ctx context.Context, route session.Route) {
	if rec, ok := ctx.Value(navigationKey{}).(*navigation); ok {
		rec.set(route)
	}
}

type navigationKey struct{}

type navigation struct {
	mu    sync.Mutex
	route session.Route
}

func (n *navigation) set(route session.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route = route
}

func (n *navigation) get() session.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

func trackNavigation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), navigationKey{}, &navigation{})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// redirectNavigated redirects to the route recorded during this request, or to
// fallback when nothing navigated.
func (h *Handler) redirectNavigated(w http.ResponseWriter, r *http.Request, fallback session.Route) {
	target := fallback
	if rec, ok := r.Context().Value(navigationKey{}).(*navigation); ok {
		if route := rec.get(); route != "" {
			target = route
		}
	}
	http.Redirect(w, r, string(target), http.StatusSeeOther)
}

var _ session.Navigator = Navigator{}
