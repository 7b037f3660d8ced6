package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoflow/api"
	"cryptoflow/config"
	"cryptoflow/market"
	"cryptoflow/metrics"
	"cryptoflow/models"
	"cryptoflow/monitoring"
	"cryptoflow/simulator"
	"cryptoflow/utils"
	"cryptoflow/view"
	"cryptoflow/ws"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.App.LogLevel, cfg.App.LogDir); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.SyncLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Feed.FollowURL != "" {
		if err := follow(ctx, cfg.Feed.FollowURL); err != nil && !errors.Is(err, context.Canceled) {
			utils.Error(err, "Follower stopped")
			os.Exit(1)
		}
		return
	}

	if err := serve(ctx, cfg); err != nil {
		utils.Error(err, "Server stopped")
		os.Exit(1)
	}
}

func loadSeed(cfg *config.Config) ([]models.CoinRecord, error) {
	if cfg.Feed.SeedFile == "" {
		return market.DefaultSeed(), nil
	}
	return market.LoadSeed(cfg.Feed.SeedFile)
}

func serve(ctx context.Context, cfg *config.Config) error {
	seed, err := loadSeed(cfg)
	if err != nil {
		return err
	}

	store, err := market.NewStore(seed, market.WithWindow(cfg.Feed.ChartWindow))
	if err != nil {
		return err
	}

	monitor := monitoring.NewMonitor(func() (uint64, uint64) {
		ticks, errs, _, _ := metrics.GetStats()
		return ticks, errs
	})

	feed, err := simulator.New(store,
		simulator.WithFrequency(cfg.TickInterval()),
		simulator.WithOnTick(func(err error) {
			if err != nil {
				monitor.RecordError(err.Error())
				return
			}
			for _, c := range store.GetAll() {
				metrics.SetCoinPrice(c.ID, c.Price)
			}
		}))
	if err != nil {
		return err
	}
	defer feed.Disconnect()

	hub := ws.NewHub(store,
		ws.WithSendBuffer(cfg.WS.SendBuffer),
		ws.WithSubscriberBuffer(cfg.Feed.SubscriberBuffer),
		ws.WithPingInterval(cfg.PingInterval()))
	go hub.Run(ctx)

	monitor.RegisterHealthCheck("scheduler", feed.Running)
	monitor.RegisterHealthCheck("store", func() bool { return store.Err() == "" })
	monitor.TrackErrorFlag(store.Err)
	monitoring.StartMetricsCollection(ctx)

	mux := http.NewServeMux()
	api.NewHandler(ctx, store, feed, hub.Clients).Register(mux)
	mux.Handle("GET /ws", hub)
	mux.HandleFunc("GET /health", monitor.HealthCheckHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.App.HTTPAddr,
		Handler:           utils.RequestLogger(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	for _, c := range store.GetAll() {
		metrics.SetCoinPrice(c.ID, c.Price)
	}
	if cfg.Feed.AutoConnect {
		feed.Connect(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		utils.Logger.Infow("HTTP server listening",
			"addr", cfg.App.HTTPAddr,
			"env", cfg.App.Environment,
			"coins", len(seed))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	utils.Logger.Infow("Shutting down")
	feed.Disconnect()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// follow mirrors another instance's feed into the log.
func follow(ctx context.Context, url string) error {
	client := ws.NewClient(url, nil)
	client.OnFrame = func(f *models.Frame) {
		if f.Type == models.FrameError || f.Error != "" {
			utils.Logger.Warnw("Feed reported an error", "error", f.Error, "version", f.Version)
		}
		sum, ok := view.MarketSummary(f.Coins)
		if !ok {
			return
		}
		utils.Logger.Infow("Market update",
			"version", f.Version,
			"coins", len(f.Coins),
			"summary", sum.Symbol+" "+sum.Text)
	}
	return client.Listen(ctx)
}
