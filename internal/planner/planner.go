// Package planner turns predicted passes into Doppler compensation plans:
// an averaged memory channel table for a transmitter, plus the recommended
// times to switch channels during the next pass.
package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/doppler"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/predict"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// Source supplies pass geometry and range rates. predict.Predictor is the
// real implementation; tests use synthetic velocity profiles.
type Source interface {
	// HighPasses returns up to limit upcoming passes clearing the
	// configured minimum elevation, ordered by AOS.
	HighPasses(sat catalog.Satellite, limit int) ([]predict.Pass, error)

	// RangeRate returns the station-relative range rate in m/s at the
	// given instant, positive when receding.
	RangeRate(sat catalog.Satellite, at time.Time) (float64, error)
}

// SwitchTime is one recommended channel change, anchored to wall-clock time.
type SwitchTime struct {
	Channel int       `json:"channel"`
	At      time.Time `json:"at"`
	RxHz    float64   `json:"rx_hz"`
	TxHz    float64   `json:"tx_hz"`
}

// Plan is a finished Doppler compensation plan for one transmitter: the
// averaged channel table and the switch schedule for the soonest pass.
type Plan struct {
	Satellite   catalog.Satellite   `json:"satellite"`
	Transmitter catalog.Transmitter `json:"transmitter"`
	Channels    []doppler.Channel   `json:"channels"`
	Switches    []SwitchTime        `json:"switches"`
	PassesUsed  int                 `json:"passes_used"`

	// Pass the switch schedule targets (the soonest qualifying pass).
	AOS     time.Time `json:"aos"`
	LOS     time.Time `json:"los"`
	MaxElev float64   `json:"max_elev"`
}

// Planner builds plans from a pass source.
type Planner struct {
	src Source
	cfg config.Config
	hub *ws.Hub
	log *log.Logger
}

// New creates a planner.
func New(src Source, cfg config.Config, hub *ws.Hub, logger *log.Logger) *Planner {
	return &Planner{
		src: src,
		cfg: cfg,
		hub: hub,
		log: logger,
	}
}

// PlanSatellite builds one plan per usable transmitter. Transmitters with
// neither an uplink nor a downlink are skipped. channels and avgPasses fall
// back to the configured defaults when zero.
func (p *Planner) PlanSatellite(ctx context.Context, sat catalog.Satellite, txs []catalog.Transmitter, channels, avgPasses int) ([]Plan, error) {
	if channels <= 0 {
		channels = p.cfg.Doppler.Channels
	}
	if avgPasses <= 0 {
		avgPasses = p.cfg.Doppler.AveragePasses
	}

	var plans []Plan
	for _, tx := range txs {
		if ctx.Err() != nil {
			return plans, ctx.Err()
		}
		if tx.DownlinkHz == 0 && tx.UplinkHz == 0 {
			continue
		}

		plan, err := p.planTransmitter(sat, tx, channels, avgPasses)
		if err != nil {
			p.broadcast(map[string]any{
				"type":    "log",
				"level":   "error",
				"message": fmt.Sprintf("plan failed for %s (%s): %v", sat.Name, tx.Description, err),
			})
			continue
		}
		plans = append(plans, *plan)
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("no plannable transmitters for %s", sat.Name)
	}
	return plans, nil
}

// planTransmitter computes the averaged channel table across the next
// avgPasses qualifying passes and the switch schedule for the soonest one.
func (p *Planner) planTransmitter(sat catalog.Satellite, tx catalog.Transmitter, channels, avgPasses int) (*Plan, error) {
	passes, err := p.src.HighPasses(sat, avgPasses)
	if err != nil {
		return nil, err
	}
	if len(passes) == 0 {
		return nil, fmt.Errorf("no passes above %.1f° in the lookahead window", p.cfg.Station.MinElevation)
	}

	target := passes[0]
	p.broadcast(map[string]any{
		"type":       "pass_predicted",
		"satellite":  sat.Name,
		"norad_id":   sat.NoradID,
		"aos":        target.AOS.Format(time.RFC3339),
		"los":        target.LOS.Format(time.RFC3339),
		"max_elev":   target.MaxElev,
		"duration_s": int(target.Duration.Seconds()),
	})

	// Per-pass channel tables from the AOS and LOS shifts.
	tables := make([][]doppler.Channel, 0, len(passes))
	for _, pass := range passes {
		aosRate, err := p.src.RangeRate(sat, pass.AOS)
		if err != nil {
			return nil, fmt.Errorf("range rate at AOS: %w", err)
		}
		losRate, err := p.src.RangeRate(sat, pass.LOS)
		if err != nil {
			return nil, fmt.Errorf("range rate at LOS: %w", err)
		}

		tables = append(tables, doppler.Table(
			doppler.At(aosRate, tx.DownlinkHz, tx.UplinkHz),
			doppler.At(losRate, tx.DownlinkHz, tx.UplinkHz),
			channels,
			tx.DownlinkHz, tx.UplinkHz,
		))
	}
	avg := doppler.Average(tables)

	// Switch schedule against the soonest pass, second by second.
	rates, err := p.passRates(sat, target)
	if err != nil {
		return nil, err
	}

	switches := doppler.SwitchTimes(rates, avg, tx.DownlinkHz, tx.UplinkHz)
	anchored := make([]SwitchTime, len(switches))
	for i, s := range switches {
		anchored[i] = SwitchTime{
			Channel: s.Channel,
			At:      target.AOS.Add(time.Duration(s.Second) * time.Second),
			RxHz:    s.RxHz,
			TxHz:    s.TxHz,
		}
	}

	plan := &Plan{
		Satellite:   sat,
		Transmitter: tx,
		Channels:    avg,
		Switches:    anchored,
		PassesUsed:  len(passes),
		AOS:         target.AOS,
		LOS:         target.LOS,
		MaxElev:     target.MaxElev,
	}

	p.broadcast(map[string]any{
		"type":        "plan_ready",
		"satellite":   sat.Name,
		"transmitter": tx.Description,
		"channels":    avg,
		"switches":    len(anchored),
		"passes_used": len(passes),
	})

	return plan, nil
}

// Profile computes the per-second shift profile of the soonest qualifying
// pass for graphing.
func (p *Planner) Profile(sat catalog.Satellite, tx catalog.Transmitter) ([]doppler.Point, *predict.Pass, error) {
	passes, err := p.src.HighPasses(sat, 1)
	if err != nil {
		return nil, nil, err
	}
	if len(passes) == 0 {
		return nil, nil, fmt.Errorf("no passes above %.1f° in the lookahead window", p.cfg.Station.MinElevation)
	}

	target := passes[0]
	rates, err := p.passRates(sat, target)
	if err != nil {
		return nil, nil, err
	}

	return doppler.Profile(rates, tx.DownlinkHz, tx.UplinkHz), &target, nil
}

// passRates samples the range rate once per second from AOS to LOS.
func (p *Planner) passRates(sat catalog.Satellite, pass predict.Pass) ([]float64, error) {
	seconds := int(pass.LOS.Sub(pass.AOS).Seconds())
	if seconds <= 0 {
		return nil, fmt.Errorf("pass has non-positive duration")
	}

	rates := make([]float64, seconds)
	for i := range rates {
		rate, err := p.src.RangeRate(sat, pass.AOS.Add(time.Duration(i)*time.Second))
		if err != nil {
			return nil, fmt.Errorf("range rate %ds after AOS: %w", i, err)
		}
		rates[i] = rate
	}
	return rates, nil
}

func (p *Planner) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "planner"
	p.hub.BroadcastJSON(v)
}
