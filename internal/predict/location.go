package predict

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Default endpoints for IP-based station location. The coordinate lookup
// returns a bare "lat,lon" line; the elevation service is the USGS Elevation
// Point Query Service.
const (
	DefaultIPLocationURL = "https://ipinfo.io/loc"
	DefaultElevationURL  = "https://epqs.nationalmap.gov/v1/json"
)

// IPLocator resolves the station position from the machine's public IP and
// then asks the elevation service for the altitude at those coordinates.
// Elevation failures are not fatal; sea level is close enough for Doppler
// work when the service is down.
type IPLocator struct {
	LocURL  string
	ElevURL string
	http    *http.Client
}

// NewIPLocator returns a locator using the default public endpoints.
func NewIPLocator() *IPLocator {
	return &IPLocator{
		LocURL:  DefaultIPLocationURL,
		ElevURL: DefaultElevationURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Locate performs the coordinate and elevation lookups.
func (l *IPLocator) Locate() (Location, error) {
	lat, lon, err := l.coordinates()
	if err != nil {
		return Location{}, err
	}

	loc := Location{Lat: lat, Lon: lon, Source: "ip"}
	if alt, elevErr := l.elevation(lat, lon); elevErr == nil {
		loc.Alt = alt
	}
	return loc, nil
}

func (l *IPLocator) coordinates() (lat, lon float64, err error) {
	resp, err := l.http.Get(l.LocURL)
	if err != nil {
		return 0, 0, fmt.Errorf("ip location: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("ip location returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("ip location read: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(string(b)), ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("ip location: malformed response %q", strings.TrimSpace(string(b)))
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("ip location latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("ip location longitude: %w", err)
	}
	return lat, lon, nil
}

func (l *IPLocator) elevation(lat, lon float64) (float64, error) {
	url := fmt.Sprintf("%s?x=%f&y=%f&units=Meters&output=json", l.ElevURL, lon, lat)
	resp, err := l.http.Get(url)
	if err != nil {
		return 0, fmt.Errorf("elevation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("elevation returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("elevation decode: %w", err)
	}
	return body.Value, nil
}
