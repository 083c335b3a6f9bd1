package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shortlink/internal/domain/models"
	authservice "shortlink/internal/services/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier(t *testing.T, key string) *authservice.Service {
	t.Helper()
	svc, err := authservice.NewService(nil, base64.StdEncoding.EncodeToString([]byte(key)), time.Hour)
	require.NoError(t, err)
	return svc
}

func TestMiddlewareAuth(t *testing.T) {
	svc := newVerifier(t, "test-secret-key-32-bytes-long!!!")
	other := newVerifier(t, "another-secret-key-32-bytes-long")
	user := models.User{ID: 5, Username: "alice"}

	validToken, err := svc.IssueToken(user, time.Hour)
	require.NoError(t, err)
	expiredToken, err := svc.IssueToken(user, -time.Minute)
	require.NoError(t, err)
	foreignToken, err := other.IssueToken(user, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantNext   bool
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + validToken, wantStatus: http.StatusUnauthorized},
		{name: "scheme without token", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expiredToken, wantStatus: http.StatusForbidden},
		{name: "foreign signature", header: "Bearer " + foreignToken, wantStatus: http.StatusForbidden},
		{name: "garbage token", header: "Bearer not.a.token", wantStatus: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantNext: true},
		{name: "lowercase scheme", header: "bearer " + validToken, wantStatus: http.StatusOK, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				claims, ok := ClaimsFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, int64(5), claims.UserID)
				assert.Equal(t, "alice", claims.Username)
			})

			req := httptest.NewRequest(http.MethodGet, "/my-urls", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			MiddlewareAuth(svc)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}
