package handlers

import (
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/microblog/app/internal/database"
	"github.com/microblog/app/internal/models"
)

const sessionCookieName = "session_token"

// SessionStore maps opaque session tokens to user ids. It is an explicit
// value handed to every handler that needs identity, never a package
// global.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]int64
	lifetime time.Duration
}

// NewSessionStore returns an empty store whose cookies expire after
// lifetime.
func NewSessionStore(lifetime time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]int64),
		lifetime: lifetime,
	}
}

// Create registers a new session for userID and returns its token.
func (s *SessionStore) Create(userID int64) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()
	return token
}

// UserID resolves a token to the user id it was created for.
func (s *SessionStore) UserID(token string) (int64, bool) {
	s.mu.Lock()
	userID, ok := s.sessions[token]
	s.mu.Unlock()
	return userID, ok
}

// Destroy forgets a token. Unknown tokens are a no-op.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// SetCookie attaches the session cookie for token to the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.lifetime),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (s *SessionStore) ClearCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser resolves the request's session cookie to a user record.
// A missing cookie, an unknown token, and a token whose user row no
// longer exists all resolve to nil: a stale session downgrades to
// anonymous instead of failing the request.
func (s *SessionStore) CurrentUser(r *http.Request, db *sql.DB) *models.User {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	userID, ok := s.UserID(cookie.Value)
	if !ok {
		return nil
	}
	user, err := database.GetUserByID(db, userID)
	if err != nil {
		return nil
	}
	return user
}
