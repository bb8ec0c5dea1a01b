package swarm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"driftwatch/internal/domain/models"
	"driftwatch/pkg/logger"
	"driftwatch/pkg/metrics"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

// holdOpen reads until the peer goes away so the server side stays up.
func holdOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestConnectDeliversFramesInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"event","n":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"event","n":2}`))
		holdOpen(conn)
	}))
	defer srv.Close()

	frames := make(chan string, 4)
	c := New(wsURL(srv), time.Hour, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	c.OnFrame(func(raw []byte) { frames <- string(raw) })

	c.Connect(context.Background())
	defer c.Disconnect()

	if !c.IsConnected() {
		t.Fatalf("expected connected after Connect")
	}

	for i, want := range []string{`{"type":"event","n":1}`, `{"type":"event","n":2}`} {
		select {
		case got := <-frames:
			if got != want {
				t.Errorf("frame %d = %s, want %s", i, got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for frame %d", i)
		}
	}
}

func TestConnectIdempotent(t *testing.T) {
	var dials int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		holdOpen(conn)
	}))
	defer srv.Close()

	c := New(wsURL(srv), time.Hour, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	ctx := context.Background()
	c.Connect(ctx)
	c.Connect(ctx)
	c.Connect(ctx)
	defer c.Disconnect()

	if got := atomic.LoadInt64(&dials); got != 1 {
		t.Fatalf("dials = %d, want 1", got)
	}
	if !c.IsConnected() {
		t.Errorf("expected connected")
	}
}

func TestAutoReconnectAfterLoss(t *testing.T) {
	var dials int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			conn.Close() // drop the first connection right away
			return
		}
		holdOpen(conn)
	}))
	defer srv.Close()

	c := New(wsURL(srv), 40*time.Millisecond, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	c.Connect(context.Background())
	defer c.Disconnect()

	waitFor(t, 2*time.Second, func() bool {
		return atomic.LoadInt64(&dials) >= 2 && c.IsConnected()
	})
}

func TestDisconnectCancelsPendingRetry(t *testing.T) {
	var dials int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	c := New(wsURL(srv), 300*time.Millisecond, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	c.Connect(context.Background())

	// The dropped connection arms a retry; cancel it well before it fires.
	waitFor(t, time.Second, func() bool { return !c.IsConnected() })
	if err := c.Disconnect(); err != nil && !strings.Contains(err.Error(), "closed") {
		t.Logf("disconnect: %v", err)
	}

	before := atomic.LoadInt64(&dials)
	time.Sleep(600 * time.Millisecond)
	if got := atomic.LoadInt64(&dials); got != before {
		t.Fatalf("dials grew after Disconnect: %d -> %d", before, got)
	}
}

func TestReconnectBypassesDelay(t *testing.T) {
	var dials int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&dials, 1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if n == 1 {
			conn.Close()
			return
		}
		holdOpen(conn)
	}))
	defer srv.Close()

	// Retry delay far beyond the test horizon; only manual Reconnect can win.
	c := New(wsURL(srv), time.Hour, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	ctx := context.Background()
	c.Connect(ctx)
	defer c.Disconnect()

	waitFor(t, time.Second, func() bool { return !c.IsConnected() })
	c.Reconnect(ctx)
	waitFor(t, 2*time.Second, func() bool {
		return atomic.LoadInt64(&dials) >= 2 && c.IsConnected()
	})
}

func TestSendWhileDisconnected(t *testing.T) {
	c := New("ws://127.0.0.1:1/ws", time.Hour, time.Minute, time.Second, newTestLogger(t), metrics.Noop{})
	if c.Send(models.ResetCommand{Type: models.CmdReset}) {
		t.Fatalf("send should report false when disconnected")
	}
}

func TestSendDeliversJSON(t *testing.T) {
	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- data
		holdOpen(conn)
	}))
	defer srv.Close()

	c := New(wsURL(srv), time.Hour, time.Minute, 2*time.Second, newTestLogger(t), metrics.Noop{})
	c.Connect(context.Background())
	defer c.Disconnect()

	if !c.Send(models.SetAllocationCommand{Type: models.CmdSetAllocation, StocksPct: 70, BondsPct: 30}) {
		t.Fatalf("send should succeed while connected")
	}

	select {
	case data := <-received:
		var cmd models.SetAllocationCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			t.Fatalf("decode command: %v", err)
		}
		if cmd.Type != "set_allocation" || cmd.StocksPct != 70 || cmd.BondsPct != 30 {
			t.Errorf("command = %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for command")
	}
}
