package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := TenantFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(tenant))
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mw := AuthMiddleware(&staticResolver{tenant: "alice"})
	server := httptest.NewServer(mw(okHandler(t)))
	t.Cleanup(server.Close)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("Authorization", "Bearer token123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	mw := AuthMiddleware(&staticResolver{tenant: "alice"})
	server := httptest.NewServer(mw(okHandler(t)))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ResolverRejects(t *testing.T) {
	mw := AuthMiddleware(&staticResolver{tenant: ""})
	server := httptest.NewServer(mw(okHandler(t)))
	t.Cleanup(server.Close)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("Authorization", "Bearer token123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOwnerHeaderMiddleware(t *testing.T) {
	server := httptest.NewServer(OwnerHeaderMiddleware(okHandler(t)))
	t.Cleanup(server.Close)

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	req.Header.Set("X-Tally-Owner", "alice")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
