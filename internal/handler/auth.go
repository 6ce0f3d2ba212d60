package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/auth"
	"github.com/nafis/blog-platform/internal/service"
)

// AuthHandler serves the register, login, and logout endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	baseURL  string
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, baseURL string, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		baseURL:  baseURL,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register.html", nil)
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	form := registerFormFromRequest(r)
	if err := checkForm(form); err != nil {
		h.flashFormError(w, r, err, "register.html", map[string]any{
			"Name":  form.Name,
			"Email": form.Email,
		})
		return
	}

	user, err := h.auth.Register(r.Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// send the duplicate to the login page, message in tow
			setFlash(w, apperror.Message(err))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	setFlash(w, "Registration successful, please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login.html", map[string]any{
		"Next": r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	next := r.PostFormValue("next")

	form := loginFormFromRequest(r)
	if err := checkForm(form); err != nil {
		h.flashFormError(w, r, err, "login.html", map[string]any{
			"Email": form.Email,
			"Next":  next,
		})
		return
	}

	result, err := h.auth.Login(r.Context(), form.Email, form.Password, form.Remember)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.flashFormError(w, r, err, "login.html", map[string]any{
				"Email": form.Email,
				"Next":  next,
			})
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	auth.SetSessionCookie(w, result.Token, form.Remember)
	h.logger.Info("user logged in", "user_id", result.User.ID)

	// "next" came in off the query string, so it is attacker-controlled;
	// anything that would land off-site falls back to the home page.
	http.Redirect(w, r, auth.SafeRedirectTarget(h.baseURL, next, "/"), http.StatusSeeOther)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	setFlash(w, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// flashFormError re-renders a form page with the validation message on top
// and the user's non-secret input preserved.
func (h *AuthHandler) flashFormError(w http.ResponseWriter, r *http.Request, err error, page string, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["Flash"] = apperror.Message(err)
	h.renderer.Render(w, r, http.StatusUnprocessableEntity, page, data)
}
