package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cryptoflow/middleware"
	"cryptoflow/models"
	"cryptoflow/parser"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
)

func fastBackOff() backoff.BackOff {
	return backoff.NewConstantBackOff(10 * time.Millisecond)
}

func TestClient_ListenDeliversFrames(t *testing.T) {
	store := newTestStore(t)
	server := httptest.NewServer(NewHub(store))
	defer server.Close()

	frames := make(chan *models.Frame, 4)
	c := NewClient(wsURL(server), nil, WithBackOff(fastBackOff))
	c.OnFrame = func(f *models.Frame) { frames <- f }

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Listen(ctx) }()

	select {
	case f := <-frames:
		if f.Version != 0 || len(f.Coins) != 5 {
			t.Errorf("unexpected frame version=%d coins=%d", f.Version, len(f.Coins))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}
	if c.Connected() {
		t.Error("client should be disconnected after Listen returns")
	}
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	store := newTestStore(t)
	var conns atomic.Int32
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conns.Add(1)
		data, _ := parser.EncodeSnapshot(store.Snapshot())
		conn.WriteMessage(websocket.TextMessage, data)
		// The connection drops once the handler returns.
	}))
	defer server.Close()

	var received atomic.Int32
	c := NewClient(wsURL(server), nil, WithBackOff(fastBackOff))
	c.OnFrame = func(*models.Frame) { received.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Listen(ctx)

	waitFor(t, func() bool { return received.Load() >= 2 })
	if conns.Load() < 2 {
		t.Errorf("expected a reconnect, saw %d connections", conns.Load())
	}
}

func TestClient_BadFramesAreSkipped(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`))
		data, _ := parser.EncodeError("Failed to update crypto data", 1)
		conn.WriteMessage(websocket.TextMessage, data)
		conn.ReadMessage()
	}))
	defer server.Close()

	frames := make(chan *models.Frame, 1)
	var parseErrors atomic.Int32
	c := NewClient(wsURL(server), nil, WithBackOff(fastBackOff))
	c.OnFrame = func(f *models.Frame) { frames <- f }
	c.OnError = func(error) { parseErrors.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Listen(ctx)

	select {
	case f := <-frames:
		if f.Type != models.FrameError || f.Error != "Failed to update crypto data" {
			t.Errorf("unexpected frame %+v", f)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame delivered")
	}
	if parseErrors.Load() != 1 {
		t.Errorf("expected 1 parse error, got %d", parseErrors.Load())
	}
}

func TestClient_BreakerOpensOnRepeatedDialFailures(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(server)
	server.Close()

	c := NewClient(url, nil, WithBreaker(middleware.NewBreaker("test-dial", time.Minute)))
	for i := 0; i < 3; i++ {
		if err := c.Connect(context.Background()); err == nil {
			t.Fatal("expected dial to fail")
		}
	}
	if err := c.Connect(context.Background()); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected open breaker, got %v", err)
	}
}
