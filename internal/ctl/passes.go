package ctl

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PassesOptions controls the passes command output.
type PassesOptions struct {
	Count     int
	Satellite string
	JSON      bool
}

// Passes lists upcoming satellite passes from the daemon.
func Passes(baseURL string, opts PassesOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	}
	if opts.Satellite != "" {
		params.Set("satellite", opts.Satellite)
	}
	path := "/api/passes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Passes []struct {
			Satellite   string  `json:"satellite"`
			NoradID     int     `json:"norad_id"`
			AOS         string  `json:"aos"`
			LOS         string  `json:"los"`
			MaxElev     float64 `json:"max_elev"`
			MaxElevTime string  `json:"max_elev_time"`
			AOSAzimuth  float64 `json:"aos_azimuth"`
			LOSAzimuth  float64 `json:"los_azimuth"`
			DurationS   int     `json:"duration_s"`
		} `json:"passes"`
		Station struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
			Alt float64 `json:"alt"`
		} `json:"station"`
	}
	// Pass prediction may involve TLE network fetches and SGP4 propagation,
	// so use the long-timeout client.
	if err := getJSONSlow(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  UPCOMING PASSES"))
	fmt.Printf("  %s %.4f, %.4f, %.0fm\n",
		colorize(dim, "Station:"),
		resp.Station.Lat, resp.Station.Lon, resp.Station.Alt,
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	if len(resp.Passes) == 0 {
		fmt.Println(colorize(dim, "  No upcoming passes found."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-4s %-12s %-22s %-22s %6s  %s\n",
		colorize(dim, "#"),
		colorize(dim, "Satellite"),
		colorize(dim, "AOS"),
		colorize(dim, "LOS"),
		colorize(dim, "Elev"),
		colorize(dim, "Duration"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 76)))

	for i, p := range resp.Passes {
		fmt.Printf("  %-4d %-12s %-22s %-22s %5.1f°  %s\n",
			i+1,
			colorize(bold, p.Satellite),
			formatPassTime(p.AOS),
			formatPassTime(p.LOS),
			p.MaxElev,
			formatDuration(time.Duration(p.DurationS)*time.Second),
		)
	}
	fmt.Println()

	return nil
}
