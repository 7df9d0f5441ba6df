// Dopplerd is the daemon half of Ham-Doppler-Calc.
//
// It loads configuration, starts the HTTP/WebSocket server, and serves pass
// prediction, Doppler channel plans, and switch schedules for amateur
// satellites. Shutdown is handled gracefully on SIGINT or SIGTERM.
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

	"github.com/spf13/pflag"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/app"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "/etc/dopplerd/dopplerd.toml", "Path to config TOML")
		bind       = pflag.String("bind", "0.0.0.0:8080", "HTTP bind address")
	)
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := log.New(os.Stdout, "dopplerd ", log.LstdFlags|log.Lmicroseconds)

	a := app.New(app.Options{
		Logger: logger,
		Cfg:    cfg,
		Bind:   *bind,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("dopplerd failed: %v", err)
	}

	// Brief pause so in-flight log writes can flush before exit.
	time.Sleep(50 * time.Millisecond)
}
