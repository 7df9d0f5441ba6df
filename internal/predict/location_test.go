package predict

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIPLocatorLocate(t *testing.T) {
	locSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "38.8977,-77.0365")
	}))
	defer locSrv.Close()

	elevSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "Meters" {
			t.Errorf("units = %q, want Meters", r.URL.Query().Get("units"))
		}
		fmt.Fprint(w, `{"value": 17.96}`)
	}))
	defer elevSrv.Close()

	l := NewIPLocator()
	l.LocURL = locSrv.URL
	l.ElevURL = elevSrv.URL

	loc, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if loc.Lat != 38.8977 || loc.Lon != -77.0365 {
		t.Errorf("coordinates = %f, %f", loc.Lat, loc.Lon)
	}
	if loc.Alt != 17.96 {
		t.Errorf("altitude = %f, want 17.96", loc.Alt)
	}
	if loc.Source != "ip" {
		t.Errorf("source = %q, want ip", loc.Source)
	}
}

func TestIPLocatorElevationFailureIsNotFatal(t *testing.T) {
	locSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "51.4779, -0.0015")
	}))
	defer locSrv.Close()

	l := NewIPLocator()
	l.LocURL = locSrv.URL
	l.ElevURL = "http://127.0.0.1:0"

	loc, err := l.Locate()
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if loc.Alt != 0 {
		t.Errorf("altitude = %f, want 0 when elevation service is down", loc.Alt)
	}
}

func TestIPLocatorMalformedCoordinates(t *testing.T) {
	tests := []string{"", "not-coordinates", "12.3", "a,b"}

	for _, body := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, body)
		}))

		l := NewIPLocator()
		l.LocURL = srv.URL

		if _, err := l.Locate(); err == nil {
			t.Errorf("Locate with body %q should fail", body)
		}
		srv.Close()
	}
}
