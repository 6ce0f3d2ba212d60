// Package repository defines the storage interfaces the service layer
// depends on. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/nafis/blog-platform/internal/model"
)

type UserRepository interface {
	// Create inserts a new user and fills in ID and CreatedAt.
	// Returns an error wrapping apperror.ErrConflict if the email is taken.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// GetByEmail returns an error wrapping apperror.ErrNotFound when no
	// account exists for the email. Lookup is case-sensitive, as stored.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type PostRepository interface {
	// Create inserts a new post and fills in ID and timestamps.
	// Returns an error wrapping apperror.ErrConflict if the title is taken.
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	// Update rewrites title/subtitle/body/img_url. The author is preserved.
	Update(ctx context.Context, post *model.Post) error
	// Delete removes the post; dependent comments cascade.
	Delete(ctx context.Context, id int64) error
}

type CommentRepository interface {
	// Create inserts a new comment and fills in ID and CreatedAt.
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPost returns a post's comments oldest-first, with author name
	// and email joined in.
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
}
