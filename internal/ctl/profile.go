package ctl

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ProfileOptions configures the profile command.
type ProfileOptions struct {
	Satellite   string
	Transmitter string
	JSON        bool
}

// Profile fetches the second-by-second Doppler shift profile for the next
// pass and renders a sampled table of the rx and tx offsets.
func Profile(baseURL string, opts ProfileOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	params := url.Values{}
	params.Set("satellite", opts.Satellite)
	if opts.Transmitter != "" {
		params.Set("transmitter", opts.Transmitter)
	}

	var resp struct {
		Satellite struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
		} `json:"satellite"`
		Transmitter struct {
			Description string  `json:"description"`
			UplinkHz    float64 `json:"uplink_hz"`
			DownlinkHz  float64 `json:"downlink_hz"`
		} `json:"transmitter"`
		Pass struct {
			AOS       string  `json:"aos"`
			LOS       string  `json:"los"`
			MaxElev   float64 `json:"max_elev"`
			DurationS int     `json:"duration_s"`
		} `json:"pass"`
		Points []struct {
			Second    int     `json:"second"`
			RxShiftHz float64 `json:"rx_shift_hz"`
			TxShiftHz float64 `json:"tx_shift_hz"`
		} `json:"points"`
	}
	if err := getJSONSlow(baseURL, "/api/profile?"+params.Encode(), &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  DOPPLER PROFILE — %s", resp.Satellite.Name)))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))
	fmt.Printf("  %s %s\n", colorize(dim, "Transmitter:"), resp.Transmitter.Description)
	fmt.Printf("  %s %s → %s, max elev %.1f°, %s\n",
		colorize(dim, "Pass:"),
		formatPassTime(resp.Pass.AOS), formatPassTime(resp.Pass.LOS),
		resp.Pass.MaxElev,
		formatDuration(time.Duration(resp.Pass.DurationS)*time.Second),
	)
	fmt.Println()

	if len(resp.Points) == 0 {
		fmt.Println(colorize(dim, "  No profile points."))
		fmt.Println()
		return nil
	}

	// Sample roughly 20 rows across the pass so the table stays readable.
	step := len(resp.Points) / 20
	if step < 1 {
		step = 1
	}

	t := newTable("  ", "T+", "Rx shift", "Tx shift")
	for i := 0; i < len(resp.Points); i += step {
		p := resp.Points[i]
		t.row(
			formatDuration(time.Duration(p.Second)*time.Second),
			fmt.Sprintf("%+.0f Hz", p.RxShiftHz),
			fmt.Sprintf("%+.0f Hz", p.TxShiftHz),
		)
	}
	last := resp.Points[len(resp.Points)-1]
	if (len(resp.Points)-1)%step != 0 {
		t.row(
			formatDuration(time.Duration(last.Second)*time.Second),
			fmt.Sprintf("%+.0f Hz", last.RxShiftHz),
			fmt.Sprintf("%+.0f Hz", last.TxShiftHz),
		)
	}
	t.flush()

	// Peak-to-peak swing on the downlink.
	minRx, maxRx := resp.Points[0].RxShiftHz, resp.Points[0].RxShiftHz
	for _, p := range resp.Points {
		if p.RxShiftHz < minRx {
			minRx = p.RxShiftHz
		}
		if p.RxShiftHz > maxRx {
			maxRx = p.RxShiftHz
		}
	}
	fmt.Printf("\n  %s %.0f Hz peak-to-peak on the downlink\n", colorize(dim, "Swing:"), maxRx-minRx)
	fmt.Println()

	return nil
}
