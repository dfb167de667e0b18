package handlers

import (
	"errors"
	"net/http"
	"strings"

	"bybud-web/internal/apperr"
	"bybud-web/internal/domain"
	"bybud-web/internal/http/views"
	"bybud-web/internal/logx"
	"bybud-web/internal/service/user"
	"bybud-web/internal/session"
)

const (
	loginFailed    = "Login failed. Please check your credentials."
	registerFailed = "Registration failed. Please try again."
)

type loginData struct {
	Message    string
	Identifier string
}

type registerData struct {
	Message string
	Form    user.Registration
}

// Root applies the landing policy: guests see the home page, couriers the
// delivery queue, everyone else their profile.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	st := session.StateFrom(r.Context())
	switch {
	case !st.Resolved:
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
	case !st.Authenticated:
		h.render(w, r, http.StatusOK, views.PageHome, "Welcome", nil)
	case st.HasRole(domain.RoleCourier):
		seeOther(w, r, "/deliveries")
	default:
		seeOther(w, r, "/profile")
	}
}

// Home handles GET /home.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageHome, "Welcome", nil)
}

// LoginForm handles GET /login.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.StateFrom(r.Context()).Authenticated {
		seeOther(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, views.PageLogin, "Login", loginData{})
}

// Login handles POST /login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if session.StateFrom(r.Context()).Authenticated {
		seeOther(w, r, "/")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, views.PageLogin, "Login", loginData{Message: loginFailed})
		return
	}
	identifier := strings.TrimSpace(r.PostFormValue("usernameOrEmail"))
	password := r.PostFormValue("password")

	rec, err := h.auth.Login(r.Context(), identifier, password)
	if err != nil {
		h.loginFailed(w, r, identifier, err)
		return
	}

	st, err := h.sessions.SignIn(r.Context(), session.IDFrom(r.Context()), rec)
	if err != nil {
		h.loginFailed(w, r, identifier, err)
		return
	}

	h.flash(w, flashSuccess, "Login successful!")
	switch {
	case st.HasRole(domain.RoleCourier):
		seeOther(w, r, "/deliveries")
	case st.HasRole(domain.RoleCustomer):
		seeOther(w, r, "/profile")
	default:
		seeOther(w, r, "/home")
	}
}

func (h *Handlers) loginFailed(w http.ResponseWriter, r *http.Request, identifier string, err error) {
	reqLogger(h.logger, r).Warn("login failed", logx.String("identifier", identifier), logx.Err(err))

	msg := loginFailed
	var be *apperr.BackendError
	if errors.As(err, &be) && be.Message != "" {
		msg = be.Message
	}
	p := h.page(w, r, "Login", loginData{Message: msg, Identifier: identifier})
	p.Flash = &views.Flash{Kind: flashError, Message: msg}
	h.views.Render(w, statusFor(err), views.PageLogin, p)
}

// RegisterForm handles GET /register.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.PageRegister, "Register", registerData{Form: user.Registration{Role: domain.RoleCustomer}})
}

// Register handles POST /register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, views.PageRegister, "Register", registerData{Message: registerFailed})
		return
	}
	form := user.Registration{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		FullName:        strings.TrimSpace(r.PostFormValue("fullName")),
		DateOfBirth:     r.PostFormValue("dateOfBirth"),
		PhoneNumber:     strings.TrimSpace(r.PostFormValue("phoneNumber")),
		Role:            domain.Role(r.PostFormValue("role")),
	}

	if _, err := h.users.Register(r.Context(), form); err != nil {
		reqLogger(h.logger, r).Warn("registration failed", logx.String("username", form.Username), logx.Err(err))
		msg := apperr.Message(err, registerFailed)
		form.Password, form.ConfirmPassword = "", ""
		p := h.page(w, r, "Register", registerData{Message: msg, Form: form})
		p.Flash = &views.Flash{Kind: flashError, Message: msg}
		h.views.Render(w, statusFor(err), views.PageRegister, p)
		return
	}

	h.flash(w, flashSuccess, "Registration successful! Please log in.")
	seeOther(w, r, "/login")
}

// Logout handles POST /logout. The local session is cleared even when the
// gateway call fails.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		reqLogger(h.logger, r).Warn("gateway logout failed", logx.Err(err))
	}
	if _, err := h.sessions.SignOut(r.Context(), session.IDFrom(r.Context())); err != nil {
		reqLogger(h.logger, r).Error("session sign out failed", logx.Err(err))
	}
	h.flash(w, flashSuccess, "Logged out successfully")
	seeOther(w, r, "/login")
}
