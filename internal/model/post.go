package model

import "time"

// Post represents a published blog post.
//
// Date is a human-formatted publish date ("January 02, 2006" layout, e.g.
// "April 02, 2025") stored as text — it is display copy, not a timestamp.
// CreatedAt/UpdatedAt carry the machine-readable times.
//
// AuthorName is not a column on blog_posts; the repository fills it from a
// JOIN against users so the listing and post pages can show a byline without
// a second query.
type Post struct {
	ID        int64     `json:"id"        db:"id"`
	AuthorID  int64     `json:"authorId"  db:"author_id"` // FK → users.id, required
	Title     string    `json:"title"     db:"title"`     // unique across all posts
	Subtitle  string    `json:"subtitle"  db:"subtitle"`
	Date      string    `json:"date"      db:"date"`
	Body      string    `json:"body"      db:"body"` // markdown, rendered at display time
	ImgURL    string    `json:"imgUrl"    db:"img_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	AuthorName string `json:"authorName" db:"-"` // joined from users
}
