// Package handler holds the HTTP layer: it decodes requests, calls services,
// and renders HTML templates. Nothing here touches the database directly.
package handler

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/auth"
	"github.com/nafis/blog-platform/internal/model"
)

// pageTemplates lists every page that composes with base.html. Each page is
// parsed into its OWN template set so that two pages can both define a
// "content" block without clobbering each other.
var pageTemplates = []string{
	"index.html",
	"post.html",
	"register.html",
	"login.html",
	"make-post.html",
	"about.html",
	"contact.html",
}

// markdownRenderer converts post bodies (stored as Markdown) to HTML.
// WithUnsafe is deliberate: post bodies are only ever written by the admin
// through a gated route, and the original content relies on inline HTML.
// Comments are NOT run through this — they render as escaped plain text.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
)

// Renderer owns the parsed template sets and the flash-message machinery.
// Handlers never call html/template directly.
type Renderer struct {
	pages   map[string]*template.Template
	adminID int64
	logger  *slog.Logger
}

func NewRenderer(templateDir string, adminID int64, logger *slog.Logger) (*Renderer, error) {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
		"gravatar": gravatarURL,
	}

	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		t, err := template.New("base.html").Funcs(funcs).ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		pages[page] = t
	}

	return &Renderer{pages: pages, adminID: adminID, logger: logger}, nil
}

// Render writes the named page. It fills in the ambient keys every template
// expects (CurrentUser, IsAdmin, Flash) before handing data to the template,
// and buffers the output so a mid-render failure becomes a clean 500 instead
// of half a page.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	t, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template requested", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = make(map[string]any)
	}
	user, loggedIn := auth.UserFromContext(r.Context())
	data["CurrentUser"] = user
	data["LoggedIn"] = loggedIn
	data["IsAdmin"] = loggedIn && user.ID == rn.adminID
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = popFlash(w, r)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", data); err != nil {
		rn.logger.Error("rendering template failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error maps a service error onto an HTTP status and a plain error page.
// Validation and conflict errors normally never reach here — handlers flash
// those back over the form instead.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, apperror.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, apperror.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperror.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		rn.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func renderMarkdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(source), &buf); err != nil {
		// fall back to the escaped source rather than dropping the body
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(buf.String())
}

// gravatarURL builds the avatar URL for a commenter's email address.
func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=100&d=retro&r=g", hash)
}

// FLASH MESSAGES:
// A flash is a one-shot notice that survives exactly one redirect — "wrong
// password", "you have logged out", and so on. It rides in a short-lived
// cookie: set it, redirect, and the next render pops (reads and clears) it.

const flashCookieName = "flash"

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	message, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return message
}

// currentUserOrPanic is for routes behind RequireAuth, where the middleware
// guarantees a user is present. A miss means the route was wired without the
// middleware, which is a bug worth failing loudly on.
func currentUserOrPanic(r *http.Request) *model.User {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		panic("handler: authenticated route reached without a user in context")
	}
	return user
}
