package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Transmitter is one uplink/downlink pair published for a satellite. A zero
// frequency marks an unused side (telemetry-only beacons have no uplink).
type Transmitter struct {
	Description string  `json:"description"`
	UplinkHz    float64 `json:"uplink_hz"`
	DownlinkHz  float64 `json:"downlink_hz"`
	Mode        string  `json:"mode"`
	Invert      bool    `json:"invert"`
	Alive       bool    `json:"alive"`
}

// satnogsTransmitter is the subset of the SatNOGS transmitter record we
// decode. uplink_low and downlink_low are nullable in the API.
type satnogsTransmitter struct {
	Description string   `json:"description"`
	UplinkLow   *float64 `json:"uplink_low"`
	DownlinkLow *float64 `json:"downlink_low"`
	Mode        string   `json:"mode"`
	Invert      bool     `json:"invert"`
	Alive       bool     `json:"alive"`
}

// Client fetches transmitter records from the SatNOGS DB API and caches
// responses on disk so planning keeps working offline. The cache walks the
// same tiers as the TLE store: fresh file, network, stale file.
type Client struct {
	BaseURL  string
	dataRoot string
	maxAge   time.Duration
	http     *http.Client
}

// NewClient returns a client for the given SatNOGS API base URL, caching
// responses under dataRoot.
func NewClient(baseURL, dataRoot string, cacheHours int) *Client {
	return &Client{
		BaseURL:  baseURL,
		dataRoot: dataRoot,
		maxAge:   time.Duration(cacheHours) * time.Hour,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Transmitters returns the published transmitters for a NORAD catalog ID.
func (c *Client) Transmitters(ctx context.Context, noradID int) ([]Transmitter, error) {
	cachePath := filepath.Join(c.dataRoot, fmt.Sprintf("transmitters_%d.json", noradID))

	raw, err := c.loadOrFetch(ctx, noradID, cachePath)
	if err != nil {
		return nil, err
	}

	return parseTransmitters(raw)
}

// loadOrFetch returns raw transmitter JSON from a fresh disk cache, the
// network, or a stale disk cache, in that order.
func (c *Client) loadOrFetch(ctx context.Context, noradID int, cachePath string) ([]byte, error) {
	info, err := os.Stat(cachePath)
	if err == nil && time.Since(info.ModTime()) < c.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return b, nil
		}
	}

	body, fetchErr := c.fetchFromNetwork(ctx, noradID)
	if fetchErr == nil {
		// Cache write failure is non-fatal; we already have the data.
		_ = writeCache(cachePath, body)
		return body, nil
	}

	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return b, nil
	}

	return nil, fmt.Errorf("transmitter lookup for NORAD %d: %w", noradID, fetchErr)
}

func (c *Client) fetchFromNetwork(ctx context.Context, noradID int) ([]byte, error) {
	url := fmt.Sprintf("%s/transmitters/?format=json&satellite__norad_cat_id=%d", c.BaseURL, noradID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SatNOGS returned HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// parseTransmitters decodes the SatNOGS response, mapping null frequencies
// to zero per the unused-side convention.
func parseTransmitters(raw []byte) ([]Transmitter, error) {
	var records []satnogsTransmitter
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode SatNOGS response: %w", err)
	}

	out := make([]Transmitter, 0, len(records))
	for _, rec := range records {
		tx := Transmitter{
			Description: rec.Description,
			Mode:        rec.Mode,
			Invert:      rec.Invert,
			Alive:       rec.Alive,
		}
		if rec.UplinkLow != nil {
			tx.UplinkHz = *rec.UplinkLow
		}
		if rec.DownlinkLow != nil {
			tx.DownlinkHz = *rec.DownlinkLow
		}
		out = append(out, tx)
	}
	return out, nil
}

// writeCache atomically writes data via a temp file and rename so readers
// never see a half-written file.
func writeCache(cachePath string, data []byte) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "satnogs-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}
