package ctl

import (
	"fmt"
	"net/url"
	"strings"
)

// Transmitters lists the SatNOGS transmitter entries for a satellite.
func Transmitters(baseURL, satellite string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	params.Set("satellite", satellite)

	var resp struct {
		Satellite struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
		} `json:"satellite"`
		Transmitters []struct {
			Description string  `json:"description"`
			UplinkHz    float64 `json:"uplink_hz"`
			DownlinkHz  float64 `json:"downlink_hz"`
			Mode        string  `json:"mode"`
			Invert      bool    `json:"invert"`
			Alive       bool    `json:"alive"`
		} `json:"transmitters"`
	}
	if err := getJSONSlow(baseURL, "/api/transmitters?"+params.Encode(), &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  TRANSMITTERS — %s (NORAD %d)", resp.Satellite.Name, resp.Satellite.NoradID)))

	if len(resp.Transmitters) == 0 {
		fmt.Println(colorize(dim, "  No transmitters on record."))
		fmt.Println()
		return nil
	}

	t := newTable("  ", "Description", "Uplink", "Downlink", "Mode", "Alive")
	for _, tx := range resp.Transmitters {
		alive := colorize(green, "yes")
		if !tx.Alive {
			alive = colorize(dim, "no")
		}
		desc := tx.Description
		if tx.Invert {
			desc += " (inverting)"
		}
		t.row(desc, formatMHz(tx.UplinkHz), formatMHz(tx.DownlinkHz), tx.Mode, alive)
	}
	t.flush()
	fmt.Println()

	return nil
}
