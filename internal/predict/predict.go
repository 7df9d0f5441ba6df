// Package predict computes upcoming amateur satellite passes for a ground
// station using SGP4 orbital propagation. It handles TLE fetching, station
// location resolution (static config, gpsd, or IP geolocation), and pass
// filtering by minimum elevation. All orbital mechanics are delegated to
// the sgp4 library; nothing here propagates orbits itself.
package predict

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/akhenakh/sgp4"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// Pass describes a single predicted overhead pass, from acquisition of
// signal (AOS) through loss of signal (LOS).
type Pass struct {
	Satellite   catalog.Satellite
	AOS         time.Time
	LOS         time.Time
	MaxElev     float64
	MaxElevTime time.Time
	AOSAzimuth  float64
	LOSAzimuth  float64
	Duration    time.Duration
}

// Predictor resolves the ground station location, fetches current TLE data,
// and runs SGP4 propagation to find upcoming passes and range rates.
type Predictor struct {
	hub      *ws.Hub
	cfg      config.Config
	log      *log.Logger
	tleStore *TLEStore

	tles map[int]*sgp4.TLE // lazily fetched, reused across calls
	loc  *Location
}

// NewPredictor creates a predictor backed by a TLE store rooted in the
// configured data directory.
func NewPredictor(hub *ws.Hub, cfg config.Config, logger *log.Logger) *Predictor {
	return &Predictor{
		hub: hub,
		cfg: cfg,
		log: logger,
		tleStore: NewTLEStore(
			cfg.Predict.TLEURL,
			cfg.Data.Root,
			cfg.Predict.TLERefreshHours,
		),
	}
}

// Store exposes the underlying TLE store for cache inspection.
func (p *Predictor) Store() *TLEStore {
	return p.tleStore
}

// ResolveLocation determines the ground station position. gpsd is tried
// first when enabled, then IP geolocation when enabled, and finally the
// static TOML values. The result is cached for the predictor's lifetime.
func (p *Predictor) ResolveLocation() (Location, error) {
	if p.loc != nil {
		return *p.loc, nil
	}

	if p.cfg.Station.UseGPSD {
		loc, err := LocationFromGPSD(p.cfg.Station.GPSDHost, 10*time.Second)
		if err != nil {
			p.log.Printf("predict: gpsd failed (%v), falling back", err)
		} else {
			p.announceLocation(loc)
			p.loc = &loc
			return loc, nil
		}
	}

	if p.cfg.Station.UseIPLocation {
		loc, err := NewIPLocator().Locate()
		if err != nil {
			p.log.Printf("predict: ip location failed (%v), falling back to config", err)
		} else {
			p.announceLocation(loc)
			p.loc = &loc
			return loc, nil
		}
	}

	loc := Location{
		Lat:    p.cfg.Station.Latitude,
		Lon:    p.cfg.Station.Longitude,
		Alt:    p.cfg.Station.Altitude,
		Source: "config",
	}
	p.loc = &loc
	return loc, nil
}

func (p *Predictor) announceLocation(loc Location) {
	p.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("location from %s: %.4f, %.4f, %.0fm", loc.Source, loc.Lat, loc.Lon, loc.Alt),
	})
}

// tle returns the TLE for a satellite, fetching the catalog set on first use.
func (p *Predictor) tle(sat catalog.Satellite) (*sgp4.TLE, error) {
	if p.tles == nil {
		tles, err := p.tleStore.Fetch()
		if err != nil {
			return nil, fmt.Errorf("fetch TLEs: %w", err)
		}
		p.tles = tles
	}

	tle, ok := p.tles[sat.NoradID]
	if !ok {
		return nil, fmt.Errorf("no TLE for %s (NORAD %d)", sat.Name, sat.NoradID)
	}
	return tle, nil
}

// ComputePasses fetches TLEs, resolves the station location, and computes
// all upcoming passes within the lookahead window for every catalog
// satellite. Passes below min_elevation are filtered out. Results are
// sorted by AOS ascending.
func (p *Predictor) ComputePasses() ([]Pass, error) {
	loc, err := p.ResolveLocation()
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}

	p.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("station: %.4f, %.4f, %.0fm", loc.Lat, loc.Lon, loc.Alt),
	})

	var allPasses []Pass
	for _, sat := range catalog.Satellites {
		passes, err := p.passesFor(sat, loc)
		if err != nil {
			p.log.Printf("predict: error computing passes for %s: %v", sat.Name, err)
			continue
		}
		allPasses = append(allPasses, passes...)
	}

	sort.Slice(allPasses, func(i, j int) bool {
		return allPasses[i].AOS.Before(allPasses[j].AOS)
	})

	p.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("found %d passes in next %dh", len(allPasses), p.cfg.Predict.LookaheadHours),
	})

	return allPasses, nil
}

// HighPasses returns up to limit upcoming passes of one satellite that
// clear the configured minimum elevation, ordered by AOS. At most
// pass_limit qualifying passes are examined; for a satellite that never
// rises high enough the lookahead window bounds the scan.
func (p *Predictor) HighPasses(sat catalog.Satellite, limit int) ([]Pass, error) {
	loc, err := p.ResolveLocation()
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}

	passes, err := p.passesFor(sat, loc)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var out []Pass
	checked := 0
	for _, pass := range passes {
		if checked >= p.cfg.Predict.PassLimit {
			break
		}
		checked++

		if pass.LOS.Before(now) {
			continue
		}
		out = append(out, pass)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// passesFor computes the qualifying passes for one satellite from the
// station location, within the lookahead window.
func (p *Predictor) passesFor(sat catalog.Satellite, loc Location) ([]Pass, error) {
	tle, err := p.tle(sat)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	end := now.Add(time.Duration(p.cfg.Predict.LookaheadHours) * time.Hour)

	rawPasses, err := tle.GeneratePasses(
		loc.Lat, loc.Lon, loc.Alt,
		now, end,
		1, // 1-second step for precision
	)
	if err != nil {
		return nil, err
	}

	var passes []Pass
	for _, rp := range rawPasses {
		if rp.MaxElevation < p.cfg.Station.MinElevation {
			continue
		}
		passes = append(passes, Pass{
			Satellite:   sat,
			AOS:         rp.AOS,
			LOS:         rp.LOS,
			MaxElev:     rp.MaxElevation,
			MaxElevTime: rp.MaxElevationTime,
			AOSAzimuth:  rp.AOSAzimuth,
			LOSAzimuth:  rp.LOSAzimuth,
			Duration:    rp.Duration,
		})
	}
	return passes, nil
}

// RangeRate returns the station-relative range rate of a satellite in m/s
// at the given instant, positive when the range is increasing (receding).
func (p *Predictor) RangeRate(sat catalog.Satellite, at time.Time) (float64, error) {
	loc, err := p.ResolveLocation()
	if err != nil {
		return 0, fmt.Errorf("resolve location: %w", err)
	}

	tle, err := p.tle(sat)
	if err != nil {
		return 0, err
	}

	eci, err := tle.FindPositionAtTime(at)
	if err != nil {
		return 0, fmt.Errorf("propagate %s: %w", sat.Name, err)
	}

	sv := sgp4.StateVector{
		X: eci.Position.X, Y: eci.Position.Y, Z: eci.Position.Z,
		VX: eci.Velocity.X, VY: eci.Velocity.Y, VZ: eci.Velocity.Z,
	}
	obs, err := sv.GetLookAngle(&sgp4.Location{
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Altitude:  loc.Alt,
	}, at)
	if err != nil {
		return 0, fmt.Errorf("look angle %s: %w", sat.Name, err)
	}

	// The library reports km/s; Doppler math wants m/s.
	return obs.LookAngles.RangeRate * 1000, nil
}

// ForceRefreshTLEs fetches TLEs from the network regardless of cache age
// and returns the number of satellites updated.
func (p *Predictor) ForceRefreshTLEs() (int, error) {
	tles, err := p.tleStore.ForceRefresh()
	if err != nil {
		return 0, err
	}
	p.tles = tles
	return len(tles), nil
}

func (p *Predictor) broadcast(v map[string]any) {
	v["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	v["component"] = "predict"
	p.hub.BroadcastJSON(v)
}
