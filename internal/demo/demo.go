// Package demo simulates the pass prediction and plan generation lifecycle
// so the daemon, CLI, and event stream can be exercised end-to-end without
// network access or an actual pass overhead. The simulated passes cycle
// through real amateur satellite names with plausible orbital parameters,
// and the channel tables come from the real Doppler math fed with a
// synthetic range-rate ramp.
package demo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/doppler"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// demoTransmitters are representative uplink/downlink pairs used for the
// simulated plans.
var demoTransmitters = []catalog.Transmitter{
	{Description: "Mode V/U FM Voice", UplinkHz: 145.880e6, DownlinkHz: 435.350e6, Mode: "FM", Alive: true},
	{Description: "Mode U/V Linear Transponder", UplinkHz: 435.150e6, DownlinkHz: 145.930e6, Mode: "SSB", Invert: true, Alive: true},
	{Description: "Telemetry Beacon", DownlinkHz: 145.935e6, Mode: "BPSK", Alive: true},
}

// Runner broadcasts simulated planning events on a configurable interval.
type Runner struct {
	Hub      *ws.Hub
	Interval time.Duration // time between simulated passes

	passIndex int // cycles through the satellite catalog
}

// New creates a demo runner with a sensible default interval.
func New(hub *ws.Hub) *Runner {
	return &Runner{
		Hub:      hub,
		Interval: 30 * time.Second,
	}
}

// Run kicks off the demo loop. It fires one simulated planning cycle
// immediately, then repeats on the configured interval until ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "demo mode active — simulating pass prediction and planning",
	})

	if !sleepOrCancel(ctx, 2*time.Second) {
		return
	}
	r.runCycle(ctx, setState)

	t := time.NewTicker(r.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.runCycle(ctx, setState)
		}
	}
}

// runCycle simulates one full planning cycle: pass prediction, channel
// table generation, and the switch schedule announcement.
func (r *Runner) runCycle(ctx context.Context, setState func(string)) {
	sat := r.nextSatellite()
	tx := demoTransmitters[r.passIndex%len(demoTransmitters)]
	now := time.Now().UTC()

	// Plausible orbital parameters for the simulated pass.
	maxElev := 20.0 + rand.Float64()*60.0                              // 20°–80°
	passDur := 8*time.Minute + time.Duration(rand.IntN(7))*time.Minute // 8–14 min
	maxRate := 2500.0 + rand.Float64()*1500.0                          // m/s at the horizon
	aos := now.Add(time.Duration(30+rand.IntN(90)) * time.Minute)
	los := aos.Add(passDur)

	setState("PREDICTING")
	r.broadcast(map[string]any{
		"type":       "pass_predicted",
		"satellite":  sat.Name,
		"norad_id":   sat.NoradID,
		"aos":        aos.Format(time.RFC3339),
		"los":        los.Format(time.RFC3339),
		"max_elev":   maxElev,
		"duration_s": int(passDur.Seconds()),
	})
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("next pass: %s at %s (max elev %.1f°, duration %s)", sat.Name, aos.Format(time.RFC3339), maxElev, passDur.Truncate(time.Second)),
	})

	if !sleepOrCancel(ctx, time.Second) {
		return
	}

	// Feed the real Doppler math a symmetric range-rate ramp so the demo
	// plan numbers are physically sensible for the chosen frequencies.
	setState("PLANNING")
	seconds := int(passDur.Seconds())
	rates := make([]float64, seconds)
	for i := range rates {
		rates[i] = -maxRate + 2*maxRate*float64(i)/float64(seconds-1)
	}

	stages := []string{"sampling pass endpoints", "building channel table", "computing switch schedule"}
	for i, detail := range stages {
		r.broadcast(map[string]any{
			"type":    "progress",
			"stage":   "planning",
			"percent": float64(i+1) * 100 / float64(len(stages)),
			"detail":  detail,
		})
		if !sleepOrCancel(ctx, 300*time.Millisecond) {
			return
		}
	}

	chans := doppler.Table(
		doppler.At(rates[0], tx.DownlinkHz, tx.UplinkHz),
		doppler.At(rates[seconds-1], tx.DownlinkHz, tx.UplinkHz),
		5,
		tx.DownlinkHz, tx.UplinkHz,
	)
	switches := doppler.SwitchTimes(rates, chans, tx.DownlinkHz, tx.UplinkHz)

	r.broadcast(map[string]any{
		"type":        "plan_ready",
		"satellite":   sat.Name,
		"transmitter": tx.Description,
		"channels":    chans,
		"switches":    len(switches),
		"passes_used": 1,
	})
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("plan ready for %s (%s): %d channels, %d switches", sat.Name, tx.Description, len(chans), len(switches)),
	})

	setState("IDLE")
}

// nextSatellite cycles through the amateur catalog so each simulated cycle
// features a different bird.
func (r *Runner) nextSatellite() catalog.Satellite {
	sat := catalog.Satellites[r.passIndex%len(catalog.Satellites)]
	r.passIndex++
	return sat
}

func (r *Runner) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "demo"
	r.Hub.BroadcastJSON(v)
}

func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
