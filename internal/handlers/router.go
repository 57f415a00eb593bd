package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
)

// NewRouter builds the application mux. Both main and the tests serve
// the exact same routes through it.
func NewRouter(db *sql.DB, sessions *SessionStore) *http.ServeMux {
	mux := http.NewServeMux()

	fs := http.FileServer(http.Dir("web/static"))
	mux.Handle("/static/", http.StripPrefix("/static/", fs))

	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, db, sessions, r)
			return
		}
		Hello(w, r)
	})

	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			RegisterPage(db, sessions)(w, r)
		case http.MethodPost:
			Register(db, sessions)(w, r)
		default:
			methodNotAllowed(w, db, sessions, r)
		}
	})

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			LoginPage(db, sessions)(w, r)
		case http.MethodPost:
			Login(db, sessions)(w, r)
		default:
			methodNotAllowed(w, db, sessions, r)
		}
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, db, sessions, r)
			return
		}
		Logout(sessions)(w, r)
	})

	mux.HandleFunc("/create", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			RequireLogin(db, sessions, CreatePage(db, sessions))(w, r)
		case http.MethodPost:
			RequireLogin(db, sessions, CreatePost(db, sessions))(w, r)
		default:
			methodNotAllowed(w, db, sessions, r)
		}
	})

	// "/" doubles as the index and the dispatcher for /{id}/update and
	// /{id}/delete, since ServeMux sends every unmatched path here.
	mux.HandleFunc("/", routePostPaths(db, sessions))

	return mux
}

// routePostPaths serves the index on the bare root path and dispatches
// /{id}/update and /{id}/delete. Everything else is a 404.
func routePostPaths(db *sql.DB, sessions *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, db, sessions, r)
				return
			}
			IndexPage(db, sessions)(w, r)
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 2 {
			notFound(w, db, sessions, r)
			return
		}

		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			notFound(w, db, sessions, r)
			return
		}

		switch parts[1] {
		case "update":
			switch r.Method {
			case http.MethodGet:
				RequireLogin(db, sessions, UpdatePage(db, sessions, id))(w, r)
			case http.MethodPost:
				RequireLogin(db, sessions, UpdatePost(db, sessions, id))(w, r)
			default:
				methodNotAllowed(w, db, sessions, r)
			}
		case "delete":
			if r.Method != http.MethodPost {
				methodNotAllowed(w, db, sessions, r)
				return
			}
			RequireLogin(db, sessions, DeletePost(db, sessions, id))(w, r)
		default:
			notFound(w, db, sessions, r)
		}
	}
}

func notFound(w http.ResponseWriter, db *sql.DB, sessions *SessionStore, r *http.Request) {
	RenderErrorPage(w, sessions.CurrentUser(r, db), http.StatusNotFound, "The page you are looking for does not exist.")
}

func methodNotAllowed(w http.ResponseWriter, db *sql.DB, sessions *SessionStore, r *http.Request) {
	RenderErrorPage(w, sessions.CurrentUser(r, db), http.StatusMethodNotAllowed, "This method is not supported for "+r.URL.Path+".")
}
