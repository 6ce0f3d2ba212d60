package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/model"
	"github.com/nafis/blog-platform/internal/repository"
)

// Validation limits. The 250-character caps match the column sizes the
// schema was designed around.
const (
	MaxTitleLength    = 250
	MaxSubtitleLength = 250
	MaxImgURLLength   = 250
)

// dateLayout is the human-readable publish date format, e.g. "April 02, 2025".
const dateLayout = "January 02, 2006"

// BlogService handles business logic for posts and comments.
type BlogService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

// NewBlogService creates a BlogService.
func NewBlogService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// ListPosts returns all posts for the listing page, newest first.
func (s *BlogService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post with its comments.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*model.Post, []model.Comment, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting post %d: %w", id, err)
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("listing comments for post %d: %w", id, err)
	}
	return post, comments, nil
}

// CreatePost validates and saves a new post authored by authorID.
// The publish date is stamped here in the human-readable layout.
func (s *BlogService) CreatePost(ctx context.Context, authorID int64, title, subtitle, body, imgURL string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if err := validatePostFields(title, subtitle, body, imgURL); err != nil {
		return nil, err
	}

	post := &model.Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: strings.TrimSpace(subtitle),
		Date:     time.Now().Format(dateLayout),
		Body:     body,
		ImgURL:   strings.TrimSpace(imgURL),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.String("title", post.Title),
	)
	return post, nil
}

// UpdatePost validates and applies an edit to an existing post.
//
// The original publish date and the original author both survive the edit —
// editing is a correction, not a change of ownership.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, title, subtitle, body, imgURL string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if err := validatePostFields(title, subtitle, body, imgURL); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading post %d for edit: %w", id, err)
	}

	post.Title = title
	post.Subtitle = strings.TrimSpace(subtitle)
	post.Body = body
	post.ImgURL = strings.TrimSpace(imgURL)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post %d: %w", id, err)
	}

	s.logger.Info("post updated", slog.Int64("postID", post.ID))
	return post, nil
}

// DeletePost removes a post and, through the store's cascade, its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post %d: %w", id, err)
	}
	s.logger.Info("post deleted", slog.Int64("postID", id))
	return nil
}

// AddComment attaches a comment by authorID to the given post.
//
// The post is loaded first so commenting on a missing post yields a clean
// not-found instead of a raw FK violation.
func (s *BlogService) AddComment(ctx context.Context, postID, authorID int64, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("comment", "comment text is required")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("loading post %d for comment: %w", postID, err)
	}

	comment := &model.Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment on post %d: %w", postID, err)
	}

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
		slog.Int64("authorID", authorID),
	)
	return comment, nil
}

func validatePostFields(title, subtitle, body, imgURL string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(subtitle) > MaxSubtitleLength {
		return apperror.ValidationFailed("subtitle",
			fmt.Sprintf("subtitle must be %d characters or less", MaxSubtitleLength))
	}
	if strings.TrimSpace(body) == "" {
		return apperror.ValidationFailed("body", "post body is required")
	}
	if len(imgURL) > MaxImgURLLength {
		return apperror.ValidationFailed("img_url",
			fmt.Sprintf("image URL must be %d characters or less", MaxImgURLLength))
	}
	return nil
}
