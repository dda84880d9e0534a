package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_DefaultPort(t *testing.T) {
	srv := NewServer(ServerConfig{})
	assert.Equal(t, 9090, srv.Port())

	srv = NewServer(ServerConfig{Port: 18231})
	assert.Equal(t, 18231, srv.Port())
}

func TestServer_IndexPage(t *testing.T) {
	srv := NewServer(ServerConfig{Port: 9090})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/metrics")

	rec = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Runs before TestServer_MetricsEndpointEnabled: the registry is global
// and write-once, so the disabled case must be observed first.
func TestServer_MetricsEndpointDisabled(t *testing.T) {
	if IsEnabled() {
		t.Skip("registry already initialized")
	}

	srv := NewServer(ServerConfig{Port: 9090})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}

func TestServer_MetricsEndpointEnabled(t *testing.T) {
	InitRegistry()

	srv := NewServer(ServerConfig{Port: 9090})

	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())

	srv := NewServer(ServerConfig{Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond, "server never came up")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	// Stop after a completed shutdown is a no-op.
	require.NoError(t, srv.Stop(context.Background()))
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer lis.Close()
	port := lis.Addr().(*net.TCPAddr).Port

	srv := NewServer(ServerConfig{Port: port})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metrics server failed")
	case <-time.After(5 * time.Second):
		t.Fatal("expected bind failure")
	}
}
