package http

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tokenauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLivez(t *testing.T) {
	ts := newTestServer(t)

	health, err := authsdk.NewSDKClient(ts.srv.URL).GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
}

func TestReadyz(t *testing.T) {
	ts := newTestServer(t)

	health, err := authsdk.NewSDKClient(ts.srv.URL).GetReadiness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, map[string]string{"database": "ok", "cache": "ok"}, health.Checks)
}

func TestReadyzCacheDown(t *testing.T) {
	ts := newTestServer(t)
	ts.mr.Close()

	resp := ts.do(t, request{method: http.MethodGet, path: "/readyz"})
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var health authsdk.HealthResponse
	decode(t, resp, &health)
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "ok", health.Checks["database"])
	require.Contains(t, health.Checks["cache"], "error")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn(t)

	resp := ts.do(t, request{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `http_requests_total{code="200",method="POST",route="POST /v1/session/sign-in"}`)
	require.Contains(t, string(body), `tokenauth_session_operations_total{operation="sign_in",outcome="ok"} 1`)
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/livez", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-123")

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get("X-Request-ID"))
}

func TestSwaggerUI(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, request{method: http.MethodGet, path: "/swagger/doc.json"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "/v1/session/sign-in")
}
