package models

import "time"

// Post is a blog entry. The author is fixed at creation and never
// reassigned.
type Post struct {
	ID       int64
	AuthorID int64
	Title    string
	Body     string
	Created  time.Time
	Username string // author's username, filled in by queries that join user
}
