package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perkhive/admin-management-api/shared/auth"
)

const (
	testIssuer = "admin-management-api"
	testSecret = "test-secret"
)

func newProtectedServer(t *testing.T) *httptest.Server {
	t.Helper()

	jwtAuth := auth.NewJWTAuthenticator(testIssuer, testIssuer)
	mw := NewJWTMiddleware(jwtAuth, testSecret, []string{"/public"})

	mux := http.NewServeMux()
	mux.HandleFunc("/public", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mw(mux))
	t.Cleanup(server.Close)
	return server
}

func validToken(t *testing.T) string {
	t.Helper()

	jwtAuth := auth.NewJWTAuthenticator(testIssuer, testIssuer)
	now := time.Now()
	token, err := jwtAuth.GenerateToken(jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Audience:  jwt.ClaimStrings{testIssuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}, testSecret)
	require.NoError(t, err)
	return token
}

func get(t *testing.T, url, bearer string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestExemptPathBypassesAuth(t *testing.T) {
	server := newProtectedServer(t)

	resp := get(t, server.URL+"/public", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMissingTokenIsRejected(t *testing.T) {
	server := newProtectedServer(t)

	resp := get(t, server.URL+"/private", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	server := newProtectedServer(t)

	resp := get(t, server.URL+"/private", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidTokenPasses(t *testing.T) {
	server := newProtectedServer(t)

	resp := get(t, server.URL+"/private", validToken(t))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
