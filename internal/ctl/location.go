package ctl

import (
	"fmt"
	"strings"
)

// Location shows the ground station location the daemon resolved and where
// it came from (config, gpsd, or IP geolocation).
func Location(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Alt    float64 `json:"alt"`
		Source string  `json:"source"`
	}
	if err := getJSONSlow(baseURL, "/api/location", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  STATION LOCATION"))
	fmt.Println("  " + strings.Repeat("─", 38))
	fmt.Printf("  Latitude:   %.4f°\n", resp.Lat)
	fmt.Printf("  Longitude:  %.4f°\n", resp.Lon)
	fmt.Printf("  Altitude:   %.0fm\n", resp.Alt)
	fmt.Printf("  Source:     %s\n", resp.Source)
	fmt.Println()

	return nil
}
