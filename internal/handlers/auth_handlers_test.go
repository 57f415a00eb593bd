package handlers

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microblog/app/internal/database"
)

// testServer bundles an httptest.Server with its database and a
// cookie-carrying client.
type testServer struct {
	server   *httptest.Server
	db       *sql.DB
	sessions *SessionStore
	client   *http.Client
}

// setupTestServer starts the full application router against an
// in-memory database, mirroring the wiring in cmd/server.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.InitDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(db))

	// Path relative to this package.
	require.NoError(t, LoadTemplates("../../web/templates"))

	sessions := NewSessionStore(time.Hour)
	server := httptest.NewServer(NewRouter(db, sessions))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		// Surface 303s instead of following them, so redirects can be
		// asserted on directly.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return &testServer{server: server, db: db, sessions: sessions, client: client}
}

func (ts *testServer) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := ts.client.Get(ts.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := ts.client.PostForm(ts.server.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ts *testServer) register(t *testing.T, username, password string) {
	t.Helper()
	resp, _ := ts.postForm(t, "/auth/register", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/auth/login", resp.Header.Get("Location"))
}

func (ts *testServer) login(t *testing.T, username, password string) {
	t.Helper()
	resp, _ := ts.postForm(t, "/auth/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func (ts *testServer) userCount(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM user").Scan(&count))
	return count
}

func (ts *testServer) postCount(t *testing.T) int {
	t.Helper()
	var count int
	require.NoError(t, ts.db.QueryRow("SELECT COUNT(*) FROM post").Scan(&count))
	return count
}

func TestRegisterThenLogin(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.get(t, "/auth/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Register")

	ts.register(t, "alice", "secret")
	ts.login(t, "alice", "secret")

	_, body = ts.get(t, "/")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Log Out")
}

func TestRegisterValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.postForm(t, "/auth/register", url.Values{
		"username": {""},
		"password": {"secret"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Username is required.")

	resp, body = ts.postForm(t, "/auth/register", url.Values{
		"username": {"alice"},
		"password": {""},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Password is required.")

	assert.Zero(t, ts.userCount(t))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := setupTestServer(t)

	ts.register(t, "alice", "secret")

	resp, body := ts.postForm(t, "/auth/register", url.Values{
		"username": {"alice"},
		"password": {"other"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "User alice is already registered.")
	assert.Equal(t, 1, ts.userCount(t))
}

func TestLoginIncorrectCredentials(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "alice", "secret")

	resp, body := ts.postForm(t, "/auth/login", url.Values{
		"username": {"nobody"},
		"password": {"secret"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Incorrect username.")

	resp, body = ts.postForm(t, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Incorrect password.")

	// Neither failed attempt established a session.
	resp, _ = ts.get(t, "/create")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
}

func TestLogout(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t, "alice", "secret")
	ts.login(t, "alice", "secret")

	resp, _ := ts.get(t, "/auth/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body := ts.get(t, "/")
	assert.Contains(t, body, "Log In")
	assert.NotContains(t, body, "Log Out")
}

func TestLogoutWithoutSession(t *testing.T) {
	ts := setupTestServer(t)

	resp, _ := ts.get(t, "/auth/logout")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestHello(t *testing.T) {
	ts := setupTestServer(t)

	resp, body := ts.get(t, "/hello")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello, World!", body)
}
