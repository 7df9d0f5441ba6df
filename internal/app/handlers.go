package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/planner"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/predict"
)

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	tleInfo := predictor.Store().CacheInfo()

	components := map[string]any{
		"http": map[string]any{"ok": true},
		"tle_cache": map[string]any{
			"ok":     true, // embedded fallback always serves
			"cached": tleInfo.Exists,
			"fresh":  tleInfo.Fresh,
		},
		"data_dir": map[string]any{
			"ok":   diskUsage(a.cfg.Data.Root) != nil,
			"path": a.cfg.Data.Root,
		},
	}

	writeJSON(w, map[string]any{
		"ok":         true,
		"state":      a.state.Load().(string),
		"components": components,
	})
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{
		"name":           "ham-doppler-calc",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"data_root":      a.cfg.Data.Root,
		"demo_enabled":   a.cfg.Demo.Enabled,
		"go_runtime":     runtime.Version(),
	}

	if a.cfg.Demo.Enabled {
		resp["mode"] = "demo"
	} else {
		resp["mode"] = "live"
	}

	resp["station"] = map[string]any{
		"lat":           a.cfg.Station.Latitude,
		"lon":           a.cfg.Station.Longitude,
		"alt":           a.cfg.Station.Altitude,
		"min_elevation": a.cfg.Station.MinElevation,
	}

	// Disk usage for the cache directory.
	if du := diskUsage(a.cfg.Data.Root); du != nil {
		resp["disk"] = du
	}

	writeJSON(w, resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.cfg)
}

func (a *App) handleSatellites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"satellites": catalog.Satellites})
}

// ---------------------------------------------------------------------------
// Transmitters and passes
// ---------------------------------------------------------------------------

func (a *App) handleTransmitters(w http.ResponseWriter, r *http.Request) {
	sat := resolveSatellite(r.URL.Query().Get("satellite"), r.URL.Query().Get("norad"))
	if sat == nil {
		jsonError(w, "unknown satellite", http.StatusBadRequest)
		return
	}

	txs, err := a.satnogs.Transmitters(r.Context(), sat.NoradID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, map[string]any{
		"satellite":    sat,
		"transmitters": txs,
	})
}

func (a *App) handlePasses(w http.ResponseWriter, r *http.Request) {
	a.transition("PREDICTING")
	defer a.transition("IDLE")

	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	passes, err := predictor.ComputePasses()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Apply query param filters.
	satFilter := r.URL.Query().Get("satellite")
	if satFilter != "" {
		upper := strings.ToUpper(satFilter)
		var filtered []predict.Pass
		for _, p := range passes {
			if strings.Contains(strings.ToUpper(p.Satellite.Name), upper) {
				filtered = append(filtered, p)
			}
		}
		passes = filtered
	}

	countStr := r.URL.Query().Get("count")
	if countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 && n < len(passes) {
			passes = passes[:n]
		}
	}

	loc, _ := predictor.ResolveLocation()
	writeJSON(w, map[string]any{
		"passes":  passesToJSON(passes),
		"station": loc,
	})
}

func (a *App) handleNextPass(w http.ResponseWriter, r *http.Request) {
	a.transition("PREDICTING")
	defer a.transition("IDLE")

	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)

	var passes []predict.Pass
	var err error
	if q := r.URL.Query().Get("satellite"); q != "" {
		sat := resolveSatellite(q, "")
		if sat == nil {
			jsonError(w, "unknown satellite", http.StatusBadRequest)
			return
		}
		passes, err = predictor.HighPasses(*sat, 1)
	} else {
		passes, err = predictor.ComputePasses()
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	loc, _ := predictor.ResolveLocation()

	now := time.Now().UTC()
	for _, p := range passes {
		if p.LOS.Before(now) {
			continue
		}
		writeJSON(w, map[string]any{
			"pass":        passToJSON(p),
			"countdown_s": int(time.Until(p.AOS).Seconds()),
			"station":     loc,
		})
		return
	}

	writeJSON(w, map[string]any{
		"pass":    nil,
		"station": loc,
	})
}

// ---------------------------------------------------------------------------
// Planning
// ---------------------------------------------------------------------------

func (a *App) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Satellite   string `json:"satellite"`
		NoradID     int    `json:"norad_id"`
		Transmitter string `json:"transmitter"`
		Channels    int    `json:"channels"`
		Passes      int    `json:"passes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}

	sat := resolveSatellite(req.Satellite, strconv.Itoa(req.NoradID))
	if sat == nil {
		jsonError(w, "unknown satellite", http.StatusBadRequest)
		return
	}

	txs, err := a.satnogs.Transmitters(r.Context(), sat.NoradID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	// Optional transmitter filter by description substring.
	if req.Transmitter != "" {
		want := strings.ToUpper(req.Transmitter)
		var matched []catalog.Transmitter
		for _, tx := range txs {
			if strings.Contains(strings.ToUpper(tx.Description), want) {
				matched = append(matched, tx)
			}
		}
		if len(matched) == 0 {
			jsonError(w, fmt.Sprintf("no transmitter matching %q", req.Transmitter), http.StatusBadRequest)
			return
		}
		txs = matched
	}

	a.transition("PLANNING")
	defer a.transition("IDLE")

	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	p := planner.New(predictor, a.cfg, a.wsHub, a.log)

	plans, err := p.PlanSatellite(r.Context(), *sat, txs, req.Channels, req.Passes)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"satellite": sat,
		"plans":     plans,
	})
}

func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	sat := resolveSatellite(r.URL.Query().Get("satellite"), r.URL.Query().Get("norad"))
	if sat == nil {
		jsonError(w, "unknown satellite", http.StatusBadRequest)
		return
	}

	txs, err := a.satnogs.Transmitters(r.Context(), sat.NoradID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	tx := pickTransmitter(txs, r.URL.Query().Get("transmitter"))
	if tx == nil {
		jsonError(w, "no usable transmitter", http.StatusBadRequest)
		return
	}

	a.transition("PLANNING")
	defer a.transition("IDLE")

	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	p := planner.New(predictor, a.cfg, a.wsHub, a.log)

	points, pass, err := p.Profile(*sat, *tx)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"satellite":   sat,
		"transmitter": tx,
		"pass":        passToJSON(*pass),
		"points":      points,
	})
}

// ---------------------------------------------------------------------------
// Location and TLE cache
// ---------------------------------------------------------------------------

func (a *App) handleLocation(w http.ResponseWriter, _ *http.Request) {
	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	loc, err := predictor.ResolveLocation()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, loc)
}

func (a *App) handleTLERefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	n, err := predictor.ForceRefreshTLEs()
	if err != nil {
		writeJSON(w, map[string]any{
			"ok":    false,
			"error": "TLE refresh failed: " + err.Error(),
		})
		return
	}

	a.wsHub.BroadcastJSON(map[string]any{
		"type":      "log",
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"component": "dopplerd",
		"level":     "info",
		"message":   fmt.Sprintf("TLE data refreshed, %d satellites updated", n),
	})

	writeJSON(w, map[string]any{
		"ok":                 true,
		"message":            fmt.Sprintf("TLE data refreshed, %d satellites updated", n),
		"satellites_updated": n,
	})
}

func (a *App) handleTLEInfo(w http.ResponseWriter, _ *http.Request) {
	predictor := predict.NewPredictor(a.wsHub, a.cfg, a.log)
	writeJSON(w, predictor.Store().CacheInfo())
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// resolveSatellite finds a catalog satellite by name substring or NORAD ID
// string, either of which may be empty.
func resolveSatellite(name, norad string) *catalog.Satellite {
	if name != "" {
		if sat := catalog.ByName(name); sat != nil {
			return sat
		}
	}
	if norad != "" {
		if id, err := strconv.Atoi(norad); err == nil && id > 0 {
			return catalog.ByNoradID(id)
		}
	}
	return nil
}

// pickTransmitter returns the transmitter matching the description filter,
// or the first one with a usable downlink when no filter is given.
func pickTransmitter(txs []catalog.Transmitter, filter string) *catalog.Transmitter {
	want := strings.ToUpper(filter)
	for i := range txs {
		if txs[i].DownlinkHz == 0 && txs[i].UplinkHz == 0 {
			continue
		}
		if want == "" || strings.Contains(strings.ToUpper(txs[i].Description), want) {
			return &txs[i]
		}
	}
	return nil
}

func passToJSON(p predict.Pass) map[string]any {
	return map[string]any{
		"satellite":     p.Satellite.Name,
		"norad_id":      p.Satellite.NoradID,
		"aos":           p.AOS.Format(time.RFC3339),
		"los":           p.LOS.Format(time.RFC3339),
		"max_elev":      p.MaxElev,
		"max_elev_time": p.MaxElevTime.Format(time.RFC3339),
		"aos_azimuth":   p.AOSAzimuth,
		"los_azimuth":   p.LOSAzimuth,
		"duration_s":    int(p.Duration.Seconds()),
	}
}

func passesToJSON(passes []predict.Pass) []map[string]any {
	out := make([]map[string]any, len(passes))
	for i, p := range passes {
		out[i] = passToJSON(p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
