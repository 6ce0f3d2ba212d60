package model

import "time"

// Comment is a reader comment attached to a post.
//
// AuthorName and AuthorEmail are joined from users by the repository —
// the name for the byline, the email to derive a gravatar URL. The email is
// never rendered directly.
type Comment struct {
	ID        int64     `json:"id"        db:"id"`
	Text      string    `json:"text"      db:"text"`
	AuthorID  int64     `json:"authorId"  db:"author_id"` // FK → users.id, required
	PostID    int64     `json:"postId"    db:"post_id"`   // FK → blog_posts.id, required
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	AuthorName  string `json:"authorName" db:"-"`
	AuthorEmail string `json:"-"          db:"-"`
}
