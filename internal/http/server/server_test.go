package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shortlink/internal/config"
	"shortlink/internal/domain/models"
	"shortlink/internal/repository/inmemory"
	"shortlink/internal/services/auth"
	"shortlink/internal/services/shortener"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecretKey = base64.StdEncoding.EncodeToString([]byte("test-secret-key-32-bytes-long!!!"))

type testEnv struct {
	ts      *httptest.Server
	client  *http.Client
	authSvc *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := inmemory.NewStorage()

	authSvc, err := auth.NewService(storage, testSecretKey, time.Hour)
	require.NoError(t, err)
	linkSvc := shortener.NewShortener(storage, "http://localhost:8080")

	log := zerolog.Nop()
	cfg := config.Config{ServerAddress: "localhost:8080", BaseURL: "http://localhost:8080"}

	srv, err := NewServer(&log, cfg, authSvc, linkSvc)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{ts: ts, client: client, authSvc: authSvc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp, decoded
}

func (e *testEnv) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	resp, _ := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestServer_FullFlow(t *testing.T) {
	env := newTestEnv(t)

	// register
	resp, body := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(1), body["user_id"])

	// login
	resp, body = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := body["token"].(string)

	// shorten
	resp, body = env.do(t, http.MethodPost, "/shorturls", token, map[string]string{
		"url": "https://example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	shortcode := body["shortcode"].(string)
	assert.Len(t, shortcode, 6)
	assert.Equal(t, "http://localhost:8080/"+shortcode, body["full_url"])

	// redirect
	resp, _ = env.do(t, http.MethodGet, "/"+shortcode, "", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://example.com", resp.Header.Get("Location"))

	// list own links
	resp, body = env.do(t, http.MethodGet, "/my-urls", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "alice")
	urls := body["urls"].([]any)
	require.Len(t, urls, 1)
	entry := urls[0].(map[string]any)
	assert.Equal(t, shortcode, entry["shortcode"])
	assert.Equal(t, "https://example.com", entry["original_url"])
}

func TestServer_Register_Failures(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": "alice", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("duplicate username", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/register", "", map[string]string{
			"username": "alice", "password": "other",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/register", "", map[string]string{
			"username": "bob",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_Login_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "alice", "secret1")

	resp, _ := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"username": "nobody", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Shorten_Failures(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice", "secret1")

	t.Run("missing url", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/shorturls", token, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requested code taken", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/shorturls", token, map[string]string{
			"url": "https://example.com", "shortcode": "custom",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, _ = env.do(t, http.MethodPost, "/shorturls", token, map[string]string{
			"url": "https://other.example.com", "shortcode": "custom",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/shorturls", "", map[string]string{
			"url": "https://example.com",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestServer_AuthRejections(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/my-urls", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := env.authSvc.IssueToken(models.User{ID: 1, Username: "alice"}, -time.Minute)
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/my-urls", expired, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		otherKey := base64.StdEncoding.EncodeToString([]byte("another-secret-key-32-bytes-long"))
		other, err := auth.NewService(nil, otherKey, time.Hour)
		require.NoError(t, err)

		foreign, err := other.IssueToken(models.User{ID: 1, Username: "alice"}, time.Hour)
		require.NoError(t, err)

		resp, _ := env.do(t, http.MethodGet, "/my-urls", foreign, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestServer_Redirect_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/doesnotexist", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_PublicRoutes(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ListIsScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	aliceToken := env.registerAndLogin(t, "alice", "secret1")
	bobToken := env.registerAndLogin(t, "bob", "secret2")

	resp, _ := env.do(t, http.MethodPost, "/shorturls", aliceToken, map[string]string{
		"url": "https://example.com/alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/my-urls", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["urls"])

	resp, body = env.do(t, http.MethodGet, "/my-urls", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["urls"].([]any), 1)
}
