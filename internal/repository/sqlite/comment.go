package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nafis/blog-platform/internal/model"
	"github.com/nafis/blog-platform/internal/repository"
)

// CommentDB provides comment persistence. Obtained via DB.Comments().
type CommentDB struct {
	conn *sql.DB
}

// Comments returns the comment repository backed by this database.
func (db *DB) Comments() *CommentDB {
	return &CommentDB{conn: db.conn}
}

var _ repository.CommentRepository = (*CommentDB)(nil)

// Create inserts a new comment. Both foreign keys are NOT NULL and
// enforced (PRAGMA foreign_keys=ON), so a comment can only ever reference
// an existing user and an existing post — inserting against a deleted post
// fails here rather than leaving a dangling row.
func (db *CommentDB) Create(ctx context.Context, comment *model.Comment) error {
	comment.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (text, author_id, post_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		comment.Text,
		comment.AuthorID,
		comment.PostID,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment (post=%d, author=%d): %w",
			comment.PostID, comment.AuthorID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new comment id: %w", err)
	}
	comment.ID = id

	return nil
}

// ListByPost returns a post's comments oldest-first, with the author's name
// and email joined in (the email feeds the gravatar URL, it is never shown).
func (db *CommentDB) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.text, c.author_id, c.post_id, c.created_at, u.name, u.email
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.Text,
			&c.AuthorID,
			&c.PostID,
			&c.CreatedAt,
			&c.AuthorName,
			&c.AuthorEmail,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}

	return comments, nil
}

// CountByPost returns the number of comments on a post.
func (db *CommentDB) CountByPost(ctx context.Context, postID int64) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting comments for post %d: %w", postID, err)
	}
	return n, nil
}
