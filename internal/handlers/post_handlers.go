package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

// IndexPage lists all posts, newest first. Visible to anonymous and
// authenticated viewers alike; the template shows edit links only to
// each post's author.
func IndexPage(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.CurrentUser(r, db)

		posts, err := database.GetAllPosts(db)
		if err != nil {
			RenderErrorPage(w, user, http.StatusInternalServerError, "Could not load posts.")
			return
		}

		data := pageData(user)
		data["Posts"] = posts
		RenderTemplate(w, "blog/index.html", data)
	}
}

// CreatePage renders the new-post form.
func CreatePage(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData(sessions.CurrentUser(r, db))
		data["Title"] = ""
		data["Body"] = ""
		RenderTemplate(w, "blog/create.html", data)
	}
}

// CreatePost handles the new-post form submission.
func CreatePost(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.CurrentUser(r, db)
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		title := r.FormValue("title")
		body := r.FormValue("body")

		if title == "" {
			// Re-render with the submitted values for this response only.
			data := pageData(user, "Title is required.")
			data["Title"] = title
			data["Body"] = body
			RenderTemplate(w, "blog/create.html", data)
			return
		}

		if _, err := database.CreatePost(db, user.ID, title, body); err != nil {
			RenderErrorPage(w, user, http.StatusInternalServerError, "Could not create post.")
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// getPost loads a post and enforces the rules shared by the update and
// delete flows: a missing row terminates the request with 404, and when
// checkAuthor is set, a viewer other than the author gets 403. The
// second return reports whether the caller may proceed.
func getPost(w http.ResponseWriter, db *sql.DB, user *models.User, id int64, checkAuthor bool) (*models.Post, bool) {
	post, err := database.GetPostByID(db, id)
	if errors.Is(err, sql.ErrNoRows) {
		RenderErrorPage(w, user, http.StatusNotFound, fmt.Sprintf("Post id %d doesn't exist.", id))
		return nil, false
	}
	if err != nil {
		RenderErrorPage(w, user, http.StatusInternalServerError, "Could not load post.")
		return nil, false
	}
	if checkAuthor && post.AuthorID != user.ID {
		RenderErrorPage(w, user, http.StatusForbidden, "You are not the author of this post.")
		return nil, false
	}
	return post, true
}

// UpdatePage renders the edit form for the post, pre-filled with its
// current title and body.
func UpdatePage(db *sql.DB, sessions *SessionStore, id int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.CurrentUser(r, db)
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		post, ok := getPost(w, db, user, id, true)
		if !ok {
			return
		}

		data := pageData(user)
		data["Post"] = post
		RenderTemplate(w, "blog/update.html", data)
	}
}

// UpdatePost handles the edit form submission.
func UpdatePost(db *sql.DB, sessions *SessionStore, id int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.CurrentUser(r, db)
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		post, ok := getPost(w, db, user, id, true)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		title := r.FormValue("title")
		body := r.FormValue("body")

		if title == "" {
			// Show the submitted edit, not the stored row, so the
			// viewer can fix it without losing their input.
			post.Title = title
			post.Body = body
			data := pageData(user, "Title is required.")
			data["Post"] = post
			RenderTemplate(w, "blog/update.html", data)
			return
		}

		if err := database.UpdatePost(db, id, title, body); err != nil {
			RenderErrorPage(w, user, http.StatusInternalServerError, "Could not update post.")
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// DeletePost removes the post once the ownership check passes.
func DeletePost(db *sql.DB, sessions *SessionStore, id int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := sessions.CurrentUser(r, db)
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}

		if _, ok := getPost(w, db, user, id, true); !ok {
			return
		}

		if err := database.DeletePost(db, id); err != nil {
			RenderErrorPage(w, user, http.StatusInternalServerError, "Could not delete post.")
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Hello responds with a fixed greeting.
func Hello(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Hello, World!")
}
