package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/microblog/app/internal/database"
)

// RegisterPage renders the registration form.
func RegisterPage(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData(sessions.CurrentUser(r, db))
		data["Username"] = ""
		RenderTemplate(w, "auth/register.html", data)
	}
}

// Register handles the registration form submission. On success the new
// user is sent to the login page; registration never logs them in.
func Register(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")

		var errMsg string
		switch {
		case username == "":
			errMsg = "Username is required."
		case password == "":
			errMsg = "Password is required."
		}

		if errMsg == "" {
			_, err := database.CreateUser(db, username, password)
			switch {
			case errors.Is(err, database.ErrUsernameTaken):
				errMsg = fmt.Sprintf("User %s is already registered.", username)
			case err != nil:
				RenderErrorPage(w, sessions.CurrentUser(r, db), http.StatusInternalServerError, "Could not create user.")
				return
			default:
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}
		}

		// Re-render the form with the flash and the submitted username.
		// The value lives only in this response, nothing is persisted.
		data := pageData(sessions.CurrentUser(r, db), errMsg)
		data["Username"] = username
		RenderTemplate(w, "auth/register.html", data)
	}
}

// LoginPage renders the login form.
func LoginPage(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData(sessions.CurrentUser(r, db))
		data["Username"] = ""
		RenderTemplate(w, "auth/login.html", data)
	}
}

// Login handles the login form submission. A successful login discards
// any prior session before issuing a new token.
func Login(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")

		var errMsg string
		user, err := database.GetUserByUsername(db, username)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			errMsg = "Incorrect username."
		case err != nil:
			RenderErrorPage(w, nil, http.StatusInternalServerError, "Could not look up user.")
			return
		case database.VerifyPassword(user.Password, password) != nil:
			errMsg = "Incorrect password."
		}

		if errMsg == "" {
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				sessions.Destroy(cookie.Value)
			}
			token := sessions.Create(user.ID)
			sessions.SetCookie(w, r, token)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		data := pageData(sessions.CurrentUser(r, db), errMsg)
		data["Username"] = username
		RenderTemplate(w, "auth/login.html", data)
	}
}

// Logout destroys the current session, if any, and redirects to the
// index. Logging out without a session is not an error.
func Logout(sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sessions.Destroy(cookie.Value)
			sessions.ClearCookie(w, r)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// RequireLogin wraps a handler so anonymous requests are redirected to
// the login page instead of reaching it.
func RequireLogin(db *sql.DB, sessions *SessionStore, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions.CurrentUser(r, db) == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
