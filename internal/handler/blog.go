package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/service"
)

// BlogHandler serves the post pages: the index, individual posts with their
// comments, and the admin-only create/edit/delete routes.
type BlogHandler struct {
	blog     *service.BlogService
	renderer *Renderer
	logger   *slog.Logger
}

func NewBlogHandler(blog *service.BlogService, renderer *Renderer, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, renderer: renderer, logger: logger}
}

func (h *BlogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "index.html", map[string]any{
		"Posts": posts,
	})
}

func (h *BlogHandler) HandleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, comments, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "post.html", map[string]any{
		"Post":     post,
		"Comments": comments,
	})
}

// HandleCreateComment accepts a comment on a post. The route sits behind
// RequireAuth, so an anonymous submitter never reaches this handler — they
// get bounced to /login with the post page as the next target.
func (h *BlogHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user := currentUserOrPanic(r)

	form := commentFormFromRequest(r)
	if err := checkForm(form); err != nil {
		setFlash(w, apperror.Message(err))
		http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
		return
	}

	if _, err := h.blog.AddComment(r.Context(), id, user.ID, form.Text); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			setFlash(w, apperror.Message(err))
			http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusSeeOther)
}

func (h *BlogHandler) HandleNewPostPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "make-post.html", map[string]any{
		"Heading": "New Post",
		"Action":  "/new-post",
	})
}

func (h *BlogHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	user := currentUserOrPanic(r)

	form := postFormFromRequest(r)
	if err := checkForm(form); err != nil {
		h.rerenderPostForm(w, r, form, "New Post", "/new-post", err)
		return
	}

	post, err := h.blog.CreatePost(r.Context(), user.ID, form.Title, form.Subtitle, form.Body, form.ImgURL)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
			h.rerenderPostForm(w, r, form, "New Post", "/new-post", err)
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	h.logger.Info("post created", "post_id", post.ID, "author_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BlogHandler) HandleEditPostPage(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	post, _, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "make-post.html", map[string]any{
		"Heading":  "Edit Post",
		"Action":   fmt.Sprintf("/edit-post/%d", id),
		"Title":    post.Title,
		"Subtitle": post.Subtitle,
		"ImgURL":   post.ImgURL,
		"Body":     post.Body,
	})
}

func (h *BlogHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	action := fmt.Sprintf("/edit-post/%d", id)

	form := postFormFromRequest(r)
	if err := checkForm(form); err != nil {
		h.rerenderPostForm(w, r, form, "Edit Post", action, err)
		return
	}

	post, err := h.blog.UpdatePost(r.Context(), id, form.Title, form.Subtitle, form.Body, form.ImgURL)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
			h.rerenderPostForm(w, r, form, "Edit Post", action, err)
			return
		}
		h.renderer.Error(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", post.ID), http.StatusSeeOther)
}

func (h *BlogHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.blog.DeletePost(r.Context(), id); err != nil {
		h.renderer.Error(w, r, err)
		return
	}

	h.logger.Info("post deleted", "post_id", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *BlogHandler) rerenderPostForm(w http.ResponseWriter, r *http.Request, form PostForm, heading, action string, err error) {
	h.renderer.Render(w, r, http.StatusUnprocessableEntity, "make-post.html", map[string]any{
		"Heading":  heading,
		"Action":   action,
		"Title":    form.Title,
		"Subtitle": form.Subtitle,
		"ImgURL":   form.ImgURL,
		"Body":     form.Body,
		"Flash":    apperror.Message(err),
	})
}

// postID pulls the {id} route parameter. Non-numeric IDs are treated the
// same as missing rows.
func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
