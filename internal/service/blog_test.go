package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/model"
)

// =========================================================================
// FAKES
// =========================================================================

type fakePostRepo struct {
	posts  map[int64]*model.Post
	nextID int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[int64]*model.Post), nextID: 1}
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	for _, p := range f.posts {
		if p.Title == post.Title {
			return apperror.Conflict("a post with this title already exists")
		}
	}
	post.ID = f.nextID
	f.nextID++
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostRepo) List(ctx context.Context) ([]model.Post, error) {
	out := []model.Post{}
	for _, p := range f.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	stored, ok := f.posts[post.ID]
	if !ok {
		return apperror.NotFound("post", post.ID)
	}
	for id, p := range f.posts {
		if id != post.ID && p.Title == post.Title {
			return apperror.Conflict("a post with this title already exists")
		}
	}
	stored.Title = post.Title
	stored.Subtitle = post.Subtitle
	stored.Body = post.Body
	stored.ImgURL = post.ImgURL
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments []model.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	out := []model.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) CountByPost(ctx context.Context, postID int64) (int, error) {
	list, _ := f.ListByPost(ctx, postID)
	return len(list), nil
}

func newTestBlogService(posts *fakePostRepo, comments *fakeCommentRepo) *BlogService {
	return NewBlogService(posts, comments, testLogger())
}

// =========================================================================
// CreatePost TESTS
// =========================================================================

func TestCreatePost(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo())

	post, err := svc.CreatePost(context.Background(), 1, "A Title", "A subtitle", "The body.", "https://example.com/x.jpg")
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.AuthorID != 1 {
		t.Errorf("AuthorID = %d, want 1", post.AuthorID)
	}

	// The publish date is stamped in the human-readable layout, e.g.
	// "April 02, 2025" — round-trip it through the same layout to check.
	if _, err := time.Parse("January 02, 2006", post.Date); err != nil {
		t.Errorf("Date = %q does not match the \"January 02, 2006\" layout: %v", post.Date, err)
	}
}

func TestCreatePost_Validation(t *testing.T) {
	svc := newTestBlogService(newFakePostRepo(), newFakeCommentRepo())

	tests := []struct {
		name  string
		title string
		body  string
	}{
		{"empty title", "", "body"},
		{"whitespace title", "   ", "body"},
		{"empty body", "Title", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), 1, tt.title, "", tt.body, "")
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("CreatePost() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	svc := newTestBlogService(newFakePostRepo(), newFakeCommentRepo())

	if _, err := svc.CreatePost(context.Background(), 1, "T", "", "body", ""); err != nil {
		t.Fatalf("first CreatePost() error = %v", err)
	}
	_, err := svc.CreatePost(context.Background(), 1, "T", "", "other body", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreatePost() error = %v, want ErrConflict for duplicate title", err)
	}
}

// =========================================================================
// UpdatePost TESTS
// =========================================================================

func TestUpdatePost_PreservesAuthorAndDate(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo())

	created, _ := svc.CreatePost(context.Background(), 1, "Original", "sub", "body", "")
	originalDate := created.Date

	updated, err := svc.UpdatePost(context.Background(), created.ID, "Edited", "sub 2", "new body", "")
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if updated.AuthorID != 1 {
		t.Errorf("AuthorID = %d after edit, want the original author 1", updated.AuthorID)
	}
	if updated.Date != originalDate {
		t.Errorf("Date = %q after edit, want original %q", updated.Date, originalDate)
	}
	if posts.posts[created.ID].Title != "Edited" {
		t.Errorf("stored title = %q, want %q", posts.posts[created.ID].Title, "Edited")
	}
}

func TestUpdatePost_NotFound(t *testing.T) {
	svc := newTestBlogService(newFakePostRepo(), newFakeCommentRepo())

	_, err := svc.UpdatePost(context.Background(), 404, "T", "", "body", "")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdatePost() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// AddComment TESTS
// =========================================================================

func TestAddComment(t *testing.T) {
	posts := newFakePostRepo()
	comments := newFakeCommentRepo()
	svc := newTestBlogService(posts, comments)

	post, _ := svc.CreatePost(context.Background(), 1, "T", "", "body", "")

	comment, err := svc.AddComment(context.Background(), post.ID, 2, "  great post  ")
	if err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if comment.Text != "great post" {
		t.Errorf("Text = %q, want trimmed %q", comment.Text, "great post")
	}
	if comment.AuthorID != 2 || comment.PostID != post.ID {
		t.Errorf("comment keys = (author=%d, post=%d), want (2, %d)", comment.AuthorID, comment.PostID, post.ID)
	}
}

func TestAddComment_EmptyText(t *testing.T) {
	svc := newTestBlogService(newFakePostRepo(), newFakeCommentRepo())

	_, err := svc.AddComment(context.Background(), 1, 2, "   ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("AddComment() error = %v, want ErrValidation", err)
	}
}

func TestAddComment_MissingPost(t *testing.T) {
	comments := newFakeCommentRepo()
	svc := newTestBlogService(newFakePostRepo(), comments)

	_, err := svc.AddComment(context.Background(), 999, 2, "hello?")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("AddComment() error = %v, want ErrNotFound", err)
	}
	if len(comments.comments) != 0 {
		t.Error("AddComment() stored a comment for a nonexistent post")
	}
}

// =========================================================================
// DeletePost TESTS
// =========================================================================

func TestDeletePost(t *testing.T) {
	posts := newFakePostRepo()
	svc := newTestBlogService(posts, newFakeCommentRepo())

	post, _ := svc.CreatePost(context.Background(), 1, "Doomed", "", "body", "")
	if err := svc.DeletePost(context.Background(), post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, ok := posts.posts[post.ID]; ok {
		t.Error("post still stored after DeletePost()")
	}
}
