// Package app wires together the HTTP server, WebSocket hub, predictor,
// and planner. It owns the daemon's lifecycle and is the single source of
// truth for the current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/demo"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger *log.Logger
	Cfg    config.Config
	Bind   string
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, and the planning pipeline.
type App struct {
	log    *log.Logger
	cfg    config.Config
	bind   string
	server *http.Server

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, etc.)

	wsHub   *ws.Hub
	satnogs *catalog.Client
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:       opts.Logger,
		cfg:       opts.Cfg,
		bind:      opts.Bind,
		startedAt: time.Now(),
		wsHub:     ws.NewHub(),
		satnogs: catalog.NewClient(
			opts.Cfg.SatNOGS.BaseURL,
			opts.Cfg.Data.Root,
			opts.Cfg.SatNOGS.CacheHours,
		),
	}
	a.state.Store("BOOTING")
	return a
}

// Run starts the HTTP server, WebSocket hub, heartbeat ticker, and the demo
// runner when enabled. It blocks until the context is cancelled or the
// server returns an error.
func (a *App) Run(ctx context.Context) error {
	bind := a.bind
	if bind == "" && a.cfg.Server.Bind != "" {
		bind = a.cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/api/status", a.handleStatus)
	mux.HandleFunc("/api/version", a.handleVersion)
	mux.HandleFunc("/api/config", a.handleConfig)
	mux.HandleFunc("/api/satellites", a.handleSatellites)
	mux.HandleFunc("/api/transmitters", a.handleTransmitters)
	mux.HandleFunc("/api/passes", a.handlePasses)
	mux.HandleFunc("/api/next-pass", a.handleNextPass)
	mux.HandleFunc("/api/plan", a.handlePlan)
	mux.HandleFunc("/api/profile", a.handleProfile)
	mux.HandleFunc("/api/location", a.handleLocation)
	mux.HandleFunc("/api/tle-refresh", a.handleTLERefresh)
	mux.HandleFunc("/api/tle-info", a.handleTLEInfo)
	mux.Handle("/ws", a.wsHub.Handler())

	a.server = &http.Server{
		Addr:              bind,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)

	if a.cfg.Demo.Enabled {
		r := demo.New(a.wsHub)
		if a.cfg.Demo.IntervalSeconds > 0 {
			r.Interval = time.Duration(a.cfg.Demo.IntervalSeconds) * time.Second
		}
		go r.Run(ctx, a.transition)
	}

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      "state",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"from":      old,
		"to":        newState,
		"component": "dopplerd",
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.wsHub.BroadcastJSON(map[string]any{
				"type":           "heartbeat",
				"ts":             time.Now().UTC().Format(time.RFC3339Nano),
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}
