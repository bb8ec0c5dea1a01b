package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"driftwatch/internal/domain/models"
	"driftwatch/internal/state"
	"driftwatch/pkg/logger"

	"github.com/gorilla/websocket"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func startHub(t *testing.T, store *state.Store) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(store, 64, newTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial relay: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read relay frame: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode relay frame %q: %v", data, err)
	}
	return m
}

func TestJoinerGetsInitialStateBeforeLiveFrames(t *testing.T) {
	store := state.New()
	store.SetPheromones([]models.PheromoneStatus{
		{Name: models.PheromonePriceFreshness, Intensity: 0.9, Threshold: 0.7, IsActive: true},
	})
	store.SetPortfolio(models.PortfolioState{TotalValue: 100000, StocksPct: 60, BondsPct: 40})

	hub, srv := startHub(t, store)
	conn := dial(t, srv)

	wantOrder := []string{"connection", "pheromone_update", "portfolio_update", "agent_metrics", "trade_history"}
	for i, want := range wantOrder {
		frame := readFrame(t, conn)
		if frame["type"] != want {
			t.Fatalf("initial frame %d type = %v, want %s", i, frame["type"], want)
		}
	}

	// A live frame arrives only after the snapshot.
	hub.Broadcast([]byte(`{"type":"event","event_type":"Deposited","pheromone":"Price Freshness","intensity":0.9}`))
	frame := readFrame(t, conn)
	if frame["type"] != "event" {
		t.Fatalf("live frame type = %v, want event", frame["type"])
	}
	if frame["event_type"] != "Deposited" {
		t.Errorf("event_type = %v", frame["event_type"])
	}
}

func TestInitialPheromoneFrameCarriesStoreState(t *testing.T) {
	store := state.New()
	store.SetPheromones([]models.PheromoneStatus{
		{Name: models.PheromoneExecutionPermit, Intensity: 0.4, Threshold: 0.5, IsActive: false},
	})

	_, srv := startHub(t, store)
	conn := dial(t, srv)

	readFrame(t, conn) // connection
	frame := readFrame(t, conn)
	phs, ok := frame["pheromones"].([]interface{})
	if !ok || len(phs) != 1 {
		t.Fatalf("pheromones = %v", frame["pheromones"])
	}
	ph := phs[0].(map[string]interface{})
	if ph["name"] != models.PheromoneExecutionPermit || ph["intensity"] != 0.4 {
		t.Errorf("pheromone = %v", ph)
	}
}

func TestLateJoinerSeesCurrentConnectivity(t *testing.T) {
	store := state.New()
	hub, srv := startHub(t, store)

	first := dial(t, srv)
	frame := readFrame(t, first)
	if frame["type"] != "connection" || frame["connected"] != false {
		t.Fatalf("first joiner connection frame = %v", frame)
	}

	hub.BroadcastStatus(true)
	// Drain the first client until the transition shows up; the hub
	// records it on the same pass.
	for {
		f := readFrame(t, first)
		if f["type"] == "connection" && f["connected"] == true {
			break
		}
	}

	second := dial(t, srv)
	frame = readFrame(t, second)
	if frame["type"] != "connection" || frame["connected"] != true {
		t.Fatalf("late joiner connection frame = %v", frame)
	}
}

func TestShutdownReleasesClients(t *testing.T) {
	store := state.New()
	hub := NewHub(store, 64, newTestLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dial(t, srv)
	for i := 0; i < 4; i++ { // connection + three empty collections
		readFrame(t, conn)
	}

	cancel()

	// The hub closes every client's queue on shutdown; the writer drains
	// and ends the connection, so this read must not hang.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// Joining a stopped hub must fail fast instead of blocking the
	// request goroutine on register.
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return // upgrade already refused, nothing left hanging
	}
	defer late.Close()
	_ = late.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := late.ReadMessage(); err == nil {
		t.Fatalf("stopped hub should close late joiners, got a frame instead")
	}
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	store := state.New()
	hub, srv := startHub(t, store)

	conns := []*websocket.Conn{dial(t, srv), dial(t, srv)}
	for _, c := range conns {
		for i := 0; i < 4; i++ { // connection + three empty collections
			readFrame(t, c)
		}
	}

	hub.Broadcast([]byte(`{"type":"trade_history","trades":[]}`))
	for i, c := range conns {
		frame := readFrame(t, c)
		if frame["type"] != "trade_history" {
			t.Errorf("client %d got type %v", i, frame["type"])
		}
	}
}
