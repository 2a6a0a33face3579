package kit

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestRunHTTPServer_ShutsDownOnCancel(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	done := make(chan error, 1)
	go func() {
		done <- RunHTTPServer(ctx, addr, h, zap.NewNop(), ServerOptions{ShutdownTimeout: time.Second})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunHTTPServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	err = RunHTTPServer(context.Background(), ln.Addr().String(), http.NotFoundHandler(), zap.NewNop(), ServerOptions{})
	assert.Error(t, err)
}

func TestServerOptions_Defaults(t *testing.T) {
	o := ServerOptions{}.withDefaults()
	assert.Equal(t, 5*time.Second, o.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, o.ShutdownTimeout)

	o = ServerOptions{ReadHeaderTimeout: time.Second}.withDefaults()
	assert.Equal(t, time.Second, o.ReadHeaderTimeout)
}
