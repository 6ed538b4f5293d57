package mockapi

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestApp_ServesUntilCancelled(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ListenAddr = freeAddr(t)

	app := NewApp(cfg, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.ListenAddr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_ListenErrorIsReturned(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ListenAddr = l.Addr().String()

	err = NewApp(cfg, logging.Nop()).Run(context.Background())
	assert.ErrorContains(t, err, "listen")
}
