package predict

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Canonical ISS element set, checksum-valid.
const issTLE = `ISS
1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927
2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537
`

func TestParseCatalog(t *testing.T) {
	tles, err := parseCatalog(issTLE)
	if err != nil {
		t.Fatalf("parseCatalog: %v", err)
	}

	tle, ok := tles[25544]
	if !ok {
		t.Fatal("ISS missing from parsed catalog")
	}
	if tle.SatelliteNumber != 25544 {
		t.Errorf("satellite number = %d, want 25544", tle.SatelliteNumber)
	}
}

func TestParseCatalogIgnoresUnknownBirds(t *testing.T) {
	noaa := `NOAA 19
1 33591U 09005A   08264.51782528 -.00002182  00000-0 -11606-4 0  2921
2 33591  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563531
`
	if _, err := parseCatalog(noaa + issTLE); err != nil {
		t.Fatalf("parseCatalog: %v", err)
	}

	tles, _ := parseCatalog(noaa + issTLE)
	if _, ok := tles[33591]; ok {
		t.Error("non-catalog satellite should be dropped")
	}
}

func TestParseCatalogEmptyInput(t *testing.T) {
	if _, err := parseCatalog("garbage\nlines\nhere"); err == nil {
		t.Error("expected error when nothing parses")
	}
}

func TestFetchPrefersFreshCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(issTLE))
	}))
	defer srv.Close()

	dataRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataRoot, tleCacheFile), []byte(issTLE), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewTLEStore(srv.URL, dataRoot, 24)
	if _, err := store.Fetch(); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if hits != 0 {
		t.Errorf("network hits = %d, want 0 with a fresh cache", hits)
	}
}

func TestFetchFallsBackToNetworkThenCaches(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(issTLE))
	}))
	defer srv.Close()

	dataRoot := t.TempDir()
	store := NewTLEStore(srv.URL, dataRoot, 24)

	if _, err := store.Fetch(); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if hits != 1 {
		t.Fatalf("network hits = %d, want 1", hits)
	}

	// The fetch must have populated the cache for next time.
	if _, err := os.Stat(filepath.Join(dataRoot, tleCacheFile)); err != nil {
		t.Errorf("cache file not written: %v", err)
	}
	if _, err := store.Fetch(); err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("network hits = %d, want 1 after caching", hits)
	}
}

func TestFetchStaleCacheWhenNetworkDown(t *testing.T) {
	dataRoot := t.TempDir()
	cachePath := filepath.Join(dataRoot, tleCacheFile)
	if err := os.WriteFile(cachePath, []byte(issTLE), 0o644); err != nil {
		t.Fatal(err)
	}
	// Make the cache stale.
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(cachePath, old, old); err != nil {
		t.Fatal(err)
	}

	store := NewTLEStore("http://127.0.0.1:0", dataRoot, 24)
	tles, err := store.Fetch()
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, ok := tles[25544]; !ok {
		t.Error("stale cache should still serve the ISS TLE")
	}
}

func TestFetchEmbeddedFallback(t *testing.T) {
	store := NewTLEStore("http://127.0.0.1:0", t.TempDir(), 24)
	tles, err := store.Fetch()
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(tles) == 0 {
		t.Error("embedded fallback produced no TLEs")
	}
}

func TestForceRefreshBypassesCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(issTLE))
	}))
	defer srv.Close()

	dataRoot := t.TempDir()
	if err := os.WriteFile(filepath.Join(dataRoot, tleCacheFile), []byte(issTLE), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewTLEStore(srv.URL, dataRoot, 24)
	if _, err := store.ForceRefresh(); err != nil {
		t.Fatalf("ForceRefresh: %v", err)
	}
	if hits != 1 {
		t.Errorf("network hits = %d, want 1 despite fresh cache", hits)
	}
}

func TestCacheInfo(t *testing.T) {
	dataRoot := t.TempDir()
	store := NewTLEStore("http://example.invalid/tle", dataRoot, 24)

	info := store.CacheInfo()
	if info.Exists {
		t.Error("cache should not exist yet")
	}
	if info.SourceURL != "http://example.invalid/tle" {
		t.Errorf("source url = %q", info.SourceURL)
	}

	if err := os.WriteFile(filepath.Join(dataRoot, tleCacheFile), []byte(issTLE), 0o644); err != nil {
		t.Fatal(err)
	}

	info = store.CacheInfo()
	if !info.Exists || !info.Fresh {
		t.Errorf("cache info = %+v, want exists and fresh", info)
	}
	if info.Size == 0 {
		t.Error("size should be nonzero")
	}
	if info.MaxAgeH != 24 {
		t.Errorf("max age = %dh, want 24", info.MaxAgeH)
	}
}
