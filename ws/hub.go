package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cryptoflow/metrics"
	"cryptoflow/models"
	"cryptoflow/parser"
	"cryptoflow/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	DefaultPingInterval = 30 * time.Second
	DefaultSendBuffer   = 16
	writeWait           = 10 * time.Second
)

// Source is the store side of the hub. *market.Store satisfies it.
type Source interface {
	Snapshot() models.Snapshot
	Subscribe(buffer int) (<-chan models.Snapshot, func())
}

// Hub pushes store snapshots to every connected websocket client.
type Hub struct {
	source       Source
	upgrader     websocket.Upgrader
	sendBuffer   int
	subBuffer    int
	pingInterval time.Duration

	mu      sync.Mutex
	clients map[string]*peer
}

type peer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once

	// since is the version of the initial snapshot; older broadcasts are skipped.
	since uint64
}

type HubOption func(*Hub)

func WithSendBuffer(n int) HubOption {
	return func(h *Hub) { h.sendBuffer = n }
}

// WithSubscriberBuffer sizes the hub's own store subscription.
func WithSubscriberBuffer(n int) HubOption {
	return func(h *Hub) { h.subBuffer = n }
}

// WithPingInterval sets the keepalive period; the read deadline is twice that.
func WithPingInterval(d time.Duration) HubOption {
	return func(h *Hub) { h.pingInterval = d }
}

func NewHub(source Source, opts ...HubOption) *Hub {
	h := &Hub{
		source:       source,
		sendBuffer:   DefaultSendBuffer,
		subBuffer:    DefaultSendBuffer,
		pingInterval: DefaultPingInterval,
		clients:      make(map[string]*peer),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.sendBuffer < 1 {
		h.sendBuffer = 1
	}
	if h.pingInterval <= 0 {
		h.pingInterval = DefaultPingInterval
	}
	return h
}

// Run forwards every published snapshot to the clients until ctx is done, then
// disconnects them all.
func (h *Hub) Run(ctx context.Context) {
	updates, cancel := h.source.Subscribe(h.subBuffer)
	defer cancel()
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			h.Broadcast(snap)
		}
	}
}

// Broadcast queues snap for every client. A client whose queue is full is dropped.
func (h *Hub) Broadcast(snap models.Snapshot) {
	data, err := parser.EncodeSnapshot(snap)
	if err != nil {
		utils.Error(err, "Error encoding snapshot", "version", snap.Version)
		return
	}

	h.mu.Lock()
	var slow []*peer
	for _, p := range h.clients {
		if snap.Version < p.since {
			continue
		}
		select {
		case p.send <- data:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.Unlock()

	for _, p := range slow {
		utils.Logger.Warnw("Feed client too slow, disconnecting", "client_id", p.id)
		h.remove(p)
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams snapshots, starting with the current one.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Error(err, "Websocket upgrade failed", "remote", r.RemoteAddr)
		return
	}

	p := &peer{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, h.sendBuffer),
	}

	// Registration and the initial snapshot happen under one lock so no
	// broadcast can slip in between them.
	h.mu.Lock()
	initial := h.source.Snapshot()
	p.since = initial.Version
	data, err := parser.EncodeSnapshot(initial)
	if err != nil {
		h.mu.Unlock()
		utils.Error(err, "Error encoding initial snapshot")
		conn.Close()
		return
	}
	p.send <- data
	h.clients[p.id] = p
	n := len(h.clients)
	h.mu.Unlock()
	metrics.SetFeedClients(n)
	utils.Logger.Infow("Feed client connected", "client_id", p.id, "clients", n)

	go h.writePump(p)
	h.readPump(p)
}

func (h *Hub) remove(p *peer) {
	p.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, p.id)
		n := len(h.clients)
		close(p.send)
		h.mu.Unlock()

		metrics.SetFeedClients(n)
		utils.Logger.Infow("Feed client disconnected", "client_id", p.id, "clients", n)
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.clients))
	for _, p := range h.clients {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		h.remove(p)
	}
}

// readPump discards client messages; it only keeps the read deadline alive.
func (h *Hub) readPump(p *peer) {
	defer h.remove(p)

	readWait := 2 * h.pingInterval
	p.conn.SetReadDeadline(time.Now().Add(readWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Logger.Warnw("Feed client read error", "client_id", p.id, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(p)
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(p)
				return
			}
		}
	}
}
