package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"ISS", "ISS"},
		{"iss", "ISS"},
		{"AO-9", "AO-91"}, // substring match, first hit wins
		{"so-50", "SO-50"},
	}
	for _, tc := range tests {
		sat := ByName(tc.query)
		if sat == nil {
			t.Errorf("ByName(%q) = nil", tc.query)
			continue
		}
		if sat.Name != tc.want {
			t.Errorf("ByName(%q) = %s, want %s", tc.query, sat.Name, tc.want)
		}
	}

	if sat := ByName("NOAA-19"); sat != nil {
		t.Errorf("ByName for unknown bird = %v, want nil", sat)
	}
}

func TestByNoradID(t *testing.T) {
	if sat := ByNoradID(25544); sat == nil || sat.Name != "ISS" {
		t.Errorf("ByNoradID(25544) = %v, want ISS", sat)
	}
	if sat := ByNoradID(99999); sat != nil {
		t.Errorf("ByNoradID(99999) = %v, want nil", sat)
	}
}

const satnogsSample = `[
  {
    "description": "Mode V/U FM Voice",
    "uplink_low": 145880000,
    "downlink_low": 435350000,
    "mode": "FM",
    "invert": false,
    "alive": true
  },
  {
    "description": "Telemetry Beacon",
    "uplink_low": null,
    "downlink_low": 145935000,
    "mode": "BPSK",
    "invert": false,
    "alive": true
  }
]`

func TestParseTransmitters(t *testing.T) {
	txs, err := parseTransmitters([]byte(satnogsSample))
	if err != nil {
		t.Fatalf("parseTransmitters: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}

	if txs[0].UplinkHz != 145880000 || txs[0].DownlinkHz != 435350000 {
		t.Errorf("voice transmitter frequencies = %f/%f", txs[0].UplinkHz, txs[0].DownlinkHz)
	}

	// A null uplink maps to zero, meaning "receive only".
	if txs[1].UplinkHz != 0 {
		t.Errorf("beacon uplink = %f, want 0", txs[1].UplinkHz)
	}
	if txs[1].DownlinkHz != 145935000 {
		t.Errorf("beacon downlink = %f, want 145935000", txs[1].DownlinkHz)
	}
}

func TestParseTransmittersBadJSON(t *testing.T) {
	if _, err := parseTransmitters([]byte("not json")); err == nil {
		t.Error("expected error for malformed response")
	}
}

func TestTransmittersCaching(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if got := r.URL.Query().Get("satellite__norad_cat_id"); got != "43017" {
			t.Errorf("norad query param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(satnogsSample))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, t.TempDir(), 1)

	txs, err := c.Transmitters(context.Background(), 43017)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("len = %d, want 2", len(txs))
	}
	if hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}

	// Second call inside the cache window must not hit the network.
	if _, err := c.Transmitters(context.Background(), 43017); err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if hits != 1 {
		t.Errorf("hits after cached fetch = %d, want 1", hits)
	}
}

func TestTransmittersStaleCacheFallback(t *testing.T) {
	dataRoot := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(satnogsSample))
	}))

	c := NewClient(srv.URL, dataRoot, 1)
	if _, err := c.Transmitters(context.Background(), 27607); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	// Kill the server and expire the cache; the stale file must still serve.
	srv.Close()
	c.maxAge = 0

	txs, err := c.Transmitters(context.Background(), 27607)
	if err != nil {
		t.Fatalf("stale-cache fetch: %v", err)
	}
	if len(txs) != 2 {
		t.Errorf("len = %d, want 2", len(txs))
	}
}

func TestTransmittersErrorWhenAllTiersFail(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", t.TempDir(), 1)
	_, err := c.Transmitters(context.Background(), 7530)
	if err == nil {
		t.Fatal("expected error with no cache and no network")
	}
	if !strings.Contains(err.Error(), "7530") {
		t.Errorf("error %q should name the NORAD ID", err)
	}
}
