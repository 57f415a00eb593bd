package database

import (
	"database/sql"

	"github.com/microblog/app/internal/models"
)

// CreatePost inserts a new post owned by authorID. The created timestamp
// is assigned by the store.
func CreatePost(db *sql.DB, authorID int64, title, body string) (*models.Post, error) {
	stmt, err := db.Prepare("INSERT INTO post(author_id, title, body) VALUES(?, ?, ?)")
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(authorID, title, body)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Re-fetch so the returned post carries the store-assigned created
	// timestamp and the author's username.
	return GetPostByID(db, id)
}

// GetPostByID retrieves a post joined with its author's username.
// Returns sql.ErrNoRows if absent.
func GetPostByID(db *sql.DB, id int64) (*models.Post, error) {
	post := &models.Post{}
	row := db.QueryRow(
		`SELECT p.id, p.author_id, p.title, p.body, p.created, u.username
		 FROM post p JOIN user u ON p.author_id = u.id
		 WHERE p.id = ?`, id)
	if err := row.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Body, &post.Created, &post.Username); err != nil {
		return nil, err
	}
	return post, nil
}

// GetAllPosts retrieves every post, newest first, each joined with its
// author's username.
func GetAllPosts(db *sql.DB) ([]*models.Post, error) {
	rows, err := db.Query(
		`SELECT p.id, p.author_id, p.title, p.body, p.created, u.username
		 FROM post p JOIN user u ON p.author_id = u.id
		 ORDER BY p.created DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Body, &post.Created, &post.Username); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// UpdatePost sets a post's title and body. The author is never changed.
func UpdatePost(db *sql.DB, id int64, title, body string) error {
	_, err := db.Exec("UPDATE post SET title = ?, body = ? WHERE id = ?", title, body, id)
	return err
}

// DeletePost removes a post. Deletion is physical and immediate.
func DeletePost(db *sql.DB, id int64) error {
	_, err := db.Exec("DELETE FROM post WHERE id = ?", id)
	return err
}
