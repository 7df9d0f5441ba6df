package predict

import (
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/catalog"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/config"
	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ws"
)

// testPredictor builds a predictor with a static config location and a
// pre-seeded fresh TLE cache, so nothing touches the network.
func testPredictor(t *testing.T) *Predictor {
	t.Helper()

	dataRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataRoot, tleCacheFile), []byte(issTLE), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Data.Root = dataRoot
	cfg.Predict.TLEURL = "http://127.0.0.1:0"
	cfg.Station.Latitude = 39.95
	cfg.Station.Longitude = -75.17
	cfg.Station.Altitude = 12

	logger := log.New(io.Discard, "", 0)
	return NewPredictor(ws.NewHub(), cfg, logger)
}

func TestRangeRatePlausible(t *testing.T) {
	p := testPredictor(t)
	iss := catalog.Satellite{Name: "ISS", NoradID: 25544}

	// Shortly after the element set's epoch (2008-09-20 ~12:25 UTC).
	at := time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC)

	rate, err := p.RangeRate(iss, at)
	if err != nil {
		t.Fatalf("RangeRate: %v", err)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		t.Fatalf("range rate = %v, want finite", rate)
	}
	// LEO orbital speed is ~7.7 km/s; the station-relative rate can never
	// exceed 8 km/s in magnitude.
	if math.Abs(rate) > 8000 {
		t.Errorf("range rate = %.0f m/s, want |v| < 8000", rate)
	}
}

func TestRangeRateChangesSignOverAnOrbit(t *testing.T) {
	p := testPredictor(t)
	iss := catalog.Satellite{Name: "ISS", NoradID: 25544}

	// One ISS orbit is ~92 minutes, so over 100 minutes the station must
	// see the bird both approach (negative) and recede (positive).
	start := time.Date(2008, 9, 20, 13, 0, 0, 0, time.UTC)
	sawNegative, sawPositive := false, false
	for m := 0; m <= 100; m += 5 {
		rate, err := p.RangeRate(iss, start.Add(time.Duration(m)*time.Minute))
		if err != nil {
			t.Fatalf("RangeRate at +%dm: %v", m, err)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			t.Fatalf("range rate at +%dm = %v, want finite", m, rate)
		}
		if rate < 0 {
			sawNegative = true
		}
		if rate > 0 {
			sawPositive = true
		}
	}

	if !sawNegative || !sawPositive {
		t.Errorf("range rate never changed sign over an orbit (negative=%v positive=%v)", sawNegative, sawPositive)
	}
}

func TestRangeRateUnknownSatellite(t *testing.T) {
	p := testPredictor(t)

	_, err := p.RangeRate(catalog.Satellite{Name: "AO-7", NoradID: 7530}, time.Now().UTC())
	if err == nil {
		t.Error("expected error when no TLE is cached for the satellite")
	}
}
