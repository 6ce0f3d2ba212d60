package handler

import (
	"log/slog"
	"net/http"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/mailer"
)

// PagesHandler serves the static-ish pages: about, and the contact form.
type PagesHandler struct {
	mailer   mailer.Mailer // nil when SMTP is not configured
	renderer *Renderer
	logger   *slog.Logger
}

func NewPagesHandler(m mailer.Mailer, renderer *Renderer, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{mailer: m, renderer: renderer, logger: logger}
}

func (h *PagesHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "about.html", nil)
}

func (h *PagesHandler) HandleContactPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "contact.html", map[string]any{
		"Heading": "Contact Me",
	})
}

func (h *PagesHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	form := contactFormFromRequest(r)
	if err := checkForm(form); err != nil {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "contact.html", map[string]any{
			"Heading": "Contact Me",
			"Email":   form.Email,
			"Message": form.Message,
			"Flash":   apperror.Message(err),
		})
		return
	}

	// Mail delivery is an optional feature: without SMTP config the form
	// still renders, it just cannot send.
	if h.mailer == nil {
		h.logger.Warn("contact form submitted but no mailer is configured")
		h.renderer.Render(w, r, http.StatusServiceUnavailable, "contact.html", map[string]any{
			"Heading": "Contact Me",
			"Email":   form.Email,
			"Message": form.Message,
			"Flash":   "The contact form is not available right now.",
		})
		return
	}

	if err := h.mailer.SendContactMessage(form.Email, form.Message); err != nil {
		h.logger.Error("sending contact message failed", "error", err)
		h.renderer.Render(w, r, http.StatusInternalServerError, "contact.html", map[string]any{
			"Heading": "Contact Me",
			"Email":   form.Email,
			"Message": form.Message,
			"Flash":   "Sending your message failed, please try again later.",
		})
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "contact.html", map[string]any{
		"Heading": "Successfully sent your message",
	})
}
