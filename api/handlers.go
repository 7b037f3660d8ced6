package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"cryptoflow/metrics"
	"cryptoflow/models"
	"cryptoflow/monitoring"
	"cryptoflow/utils"
	"cryptoflow/view"
)

// Store is the read side of the market state plus its error flag.
type Store interface {
	GetAll() []models.CoinRecord
	Get(id string) (models.CoinRecord, bool)
	Snapshot() models.Snapshot
	ClearError()
}

// Feed controls the tick scheduler.
type Feed interface {
	Connect(ctx context.Context)
	Disconnect()
	SetFrequency(d time.Duration) error
	Running() bool
	Frequency() time.Duration
	Ticks() uint64
	Failures() uint64
}

type Handler struct {
	ctx     context.Context
	store   Store
	feed    Feed
	clients func() int
}

// NewHandler builds the HTTP API. ctx bounds feeds started through the API;
// clients reports connected websocket clients and may be nil.
func NewHandler(ctx context.Context, store Store, feed Feed, clients func() int) *Handler {
	if clients == nil {
		clients = func() int { return 0 }
	}
	return &Handler{ctx: ctx, store: store, feed: feed, clients: clients}
}

func (h *Handler) Register(mux *http.ServeMux) {
	h.handle(mux, "GET /api/coins", h.listCoins)
	h.handle(mux, "GET /api/coins/{id}", h.getCoin)
	h.handle(mux, "GET /api/coins/{id}/sparkline.svg", h.sparkline)
	h.handle(mux, "GET /api/summary", h.summary)
	h.handle(mux, "GET /api/status", h.status)
	h.handle(mux, "POST /api/feed/connect", h.connect)
	h.handle(mux, "POST /api/feed/disconnect", h.disconnect)
	h.handle(mux, "PUT /api/feed/frequency", h.setFrequency)
	h.handle(mux, "POST /api/feed/clear-error", h.clearError)
}

func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		monitoring.ObserveRequest(pattern, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type CoinsResponse struct {
	Version uint64           `json:"version"`
	Loading bool             `json:"loading"`
	Error   string           `json:"error,omitempty"`
	Sort    view.SortConfig  `json:"sort"`
	Coins   []models.CoinRow `json:"coins"`
}

type StatusResponse struct {
	models.FeedStats
	Version uint64 `json:"version"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) listCoins(w http.ResponseWriter, r *http.Request) {
	cfg, err := view.ParseSort(r.URL.Query().Get("sort"), r.URL.Query().Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap := h.store.Snapshot()
	writeJSON(w, http.StatusOK, CoinsResponse{
		Version: snap.Version,
		Loading: snap.Loading,
		Error:   snap.Error,
		Sort:    cfg,
		Coins:   view.Table(snap.Coins, cfg),
	})
}

func (h *Handler) getCoin(w http.ResponseWriter, r *http.Request) {
	coin, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "coin not found")
		return
	}
	writeJSON(w, http.StatusOK, view.Row(coin))
}

func (h *Handler) sparkline(w http.ResponseWriter, r *http.Request) {
	coin, ok := h.store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "coin not found")
		return
	}

	width, err := floatParam(r, "w", view.DefaultSparkWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := floatParam(r, "h", view.DefaultSparkHeight)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := view.NewSparkline(coin.ChartData, width, height)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(line.SVG()))
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sum, ok := view.MarketSummary(h.store.GetAll())
	if !ok {
		writeError(w, http.StatusNotFound, "no market data")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *Handler) currentStatus() StatusResponse {
	_, _, lastTick, uptime := metrics.GetStats()
	snap := h.store.Snapshot()
	return StatusResponse{
		FeedStats: models.FeedStats{
			Running:       h.feed.Running(),
			FrequencyMS:   h.feed.Frequency().Milliseconds(),
			Ticks:         h.feed.Ticks(),
			Failures:      h.feed.Failures(),
			Clients:       h.clients(),
			LastProcessed: lastTick,
			Uptime:        uptime.Round(time.Second).String(),
		},
		Version: snap.Version,
		Loading: snap.Loading,
		Error:   snap.Error,
	}
}

func (h *Handler) connect(w http.ResponseWriter, r *http.Request) {
	h.feed.Connect(h.ctx)
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	h.feed.Disconnect()
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *Handler) setFrequency(w http.ResponseWriter, r *http.Request) {
	ms, err := strconv.ParseInt(r.URL.Query().Get("ms"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ms must be an integer number of milliseconds")
		return
	}
	if err := h.feed.SetFrequency(time.Duration(ms) * time.Millisecond); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func (h *Handler) clearError(w http.ResponseWriter, r *http.Request) {
	h.store.ClearError()
	writeJSON(w, http.StatusOK, h.currentStatus())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Error(err, "Error encoding response")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
