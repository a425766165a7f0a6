package console

import (
	"net/http"
	"strings"

	"hrconsole/internal/api"
	"hrconsole/internal/platform/privacy"
	"hrconsole/internal/session"
	dErrors "hrconsole/pkg/domain-errors"
	"hrconsole/pkg/platform/httputil"
	"hrconsole/pkg/validation"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name       string `form:"name" validate:"notblank"`
	Email      string `form:"email" validate:"required,email"`
	Password   string `form:"password" validate:"required,min=6"`
	Department string `form:"department"`
	Role       string `form:"role"`
}

// requireSession lets authenticated requests through and sends everyone else
// to the sign-in page. Requests arriving before Init completes get 503.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch h.session.Snapshot().State {
		case session.Authenticated:
			next.ServeHTTP(w, r)
		case session.Uninitialized:
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "session is initializing"))
		default:
			http.Redirect(w, r, string(session.RouteLogin), http.StatusSeeOther)
		}
	})
}

// requireGuest keeps signed-in users away from the sign-in and sign-up pages.
func (h *Handler) requireGuest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.session.Snapshot().State == session.Authenticated {
			http.Redirect(w, r, string(session.RouteDashboard), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", "Sign in", loginForm{}, nil)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login", "Sign in", loginForm{}, &Flash{Kind: FlashError, Message: "invalid form submission"})
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	// Never echo the password back into the page.
	echo := loginForm{Email: form.Email}

	if err := validation.Validate(&form); err != nil {
		h.render(w, r, http.StatusBadRequest, "login", "Sign in", echo, &Flash{Kind: FlashError, Message: err.Error()})
		return
	}

	if err := h.session.Login(ctx, api.Credentials{Email: form.Email, Password: form.Password}); err != nil {
		h.logger.InfoContext(ctx, "sign-in rejected", "email", privacy.MaskEmail(form.Email))
		flash, status, _ := h.failure(w, r, err, "login")
		h.render(w, r, status, "login", "Sign in", echo, flash)
		return
	}

	h.view.Invalidate()
	if user := h.session.Snapshot().User; user != nil {
		setFlash(w, FlashSuccess, "Welcome back, "+user.Name)
	}
	h.redirectNavigated(w, r, session.RouteDashboard)
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", "Create account", registerForm{}, nil)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "register", "Create account", registerForm{}, &Flash{Kind: FlashError, Message: "invalid form submission"})
		return
	}
	form := registerForm{
		Name:       strings.TrimSpace(r.PostForm.Get("name")),
		Email:      strings.TrimSpace(r.PostForm.Get("email")),
		Password:   r.PostForm.Get("password"),
		Department: strings.TrimSpace(r.PostForm.Get("department")),
		Role:       strings.TrimSpace(r.PostForm.Get("role")),
	}
	echo := form
	echo.Password = ""

	if err := validation.Validate(&form); err != nil {
		h.render(w, r, http.StatusBadRequest, "register", "Create account", echo, &Flash{Kind: FlashError, Message: err.Error()})
		return
	}

	reg := api.Registration{
		Name:       form.Name,
		Email:      form.Email,
		Password:   form.Password,
		Department: form.Department,
		Role:       form.Role,
	}
	if err := h.session.Register(ctx, reg); err != nil {
		flash, status, _ := h.failure(w, r, err, "register")
		h.render(w, r, status, "register", "Create account", echo, flash)
		return
	}

	h.view.Invalidate()
	setFlash(w, FlashSuccess, "Account created")
	h.redirectNavigated(w, r, session.RouteDashboard)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.WarnContext(r.Context(), "logout did not clear the stored token", "error", err)
	}
	h.view.Invalidate()
	setFlash(w, FlashSuccess, "Signed out")
	h.redirectNavigated(w, r, session.RouteLogin)
}
