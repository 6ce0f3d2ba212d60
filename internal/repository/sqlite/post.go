package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/model"
	"github.com/nafis/blog-platform/internal/repository"
)

// PostDB provides blog post persistence. Obtained via DB.Posts().
type PostDB struct {
	conn *sql.DB
}

// Posts returns the post repository backed by this database.
func (db *DB) Posts() *PostDB {
	return &PostDB{conn: db.conn}
}

var _ repository.PostRepository = (*PostDB)(nil)

// Create inserts a new blog post.
//
// PARAMETERIZED QUERIES (the ? placeholders):
// Never build SQL strings with fmt.Sprintf or concatenation — that creates
// SQL injection vulnerabilities. The driver safely escapes each ? argument.
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("a post with this title already exists")
		}
		return fmt.Errorf("sqlite: inserting post (title=%s): %w", post.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new post id: %w", err)
	}
	post.ID = id

	return nil
}

// GetByID retrieves a post with its author's display name joined in.
func (db *PostDB) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post

	err := db.conn.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url,
		        p.created_at, p.updated_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Subtitle,
		&p.Date,
		&p.Body,
		&p.ImgURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.AuthorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}

	return &p, nil
}

// List returns all posts, newest first, with author names joined in.
// A blog's whole archive fits in memory comfortably; no pagination yet.
func (db *PostDB) List(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url,
		        p.created_at, p.updated_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close() // rows MUST be closed or the connection leaks

	posts := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID,
			&p.AuthorID,
			&p.Title,
			&p.Subtitle,
			&p.Date,
			&p.Body,
			&p.ImgURL,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating post rows: %w", err)
	}

	return posts, nil
}

// Update rewrites a post's editable fields. author_id is deliberately not
// in the SET list — editing a post does not transfer its authorship.
func (db *PostDB) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE blog_posts
		 SET title = ?, subtitle = ?, body = ?, img_url = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Subtitle,
		post.Body,
		post.ImgURL,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("a post with this title already exists")
		}
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of post %d: %w", post.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post. The comments table declares ON DELETE CASCADE on
// post_id, so dependent comments go with it in the same statement — the
// store never holds a comment whose parent post is gone.
func (db *PostDB) Delete(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of post %d: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
