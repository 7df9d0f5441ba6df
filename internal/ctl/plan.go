package ctl

import (
	"fmt"
	"strings"
)

// PlanOptions configures the plan command.
type PlanOptions struct {
	Satellite   string
	NoradID     int
	Transmitter string
	Channels    int
	Passes      int
	JSON        bool
}

type planJSON struct {
	Satellite struct {
		Name    string `json:"name"`
		NoradID int    `json:"norad_id"`
	} `json:"satellite"`
	Transmitter struct {
		Description string  `json:"description"`
		UplinkHz    float64 `json:"uplink_hz"`
		DownlinkHz  float64 `json:"downlink_hz"`
		Mode        string  `json:"mode"`
		Invert      bool    `json:"invert"`
	} `json:"transmitter"`
	Channels []struct {
		RxHz float64 `json:"rx_hz"`
		TxHz float64 `json:"tx_hz"`
	} `json:"channels"`
	Switches []struct {
		Channel int     `json:"channel"`
		At      string  `json:"at"`
		RxHz    float64 `json:"rx_hz"`
		TxHz    float64 `json:"tx_hz"`
	} `json:"switches"`
	PassesUsed int     `json:"passes_used"`
	AOS        string  `json:"aos"`
	LOS        string  `json:"los"`
	MaxElev    float64 `json:"max_elev"`
}

// Plan requests channel plans from the daemon and renders them as memory
// channel tables with a switch schedule for the next pass.
func Plan(baseURL string, opts PlanOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	req := map[string]any{
		"satellite":   opts.Satellite,
		"norad_id":    opts.NoradID,
		"transmitter": opts.Transmitter,
		"channels":    opts.Channels,
		"passes":      opts.Passes,
	}

	var resp struct {
		Satellite struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
		} `json:"satellite"`
		Plans []planJSON `json:"plans"`
	}
	if err := postJSON(baseURL, "/api/plan", req, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header(fmt.Sprintf("  CHANNEL PLAN — %s (NORAD %d)", resp.Satellite.Name, resp.Satellite.NoradID)))

	if len(resp.Plans) == 0 {
		fmt.Println(colorize(dim, "  No usable transmitters."))
		fmt.Println()
		return nil
	}

	for _, p := range resp.Plans {
		printPlan(p)
	}

	return nil
}

func printPlan(p planJSON) {
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 64)))
	fmt.Printf("  %s %s", colorize(dim, "Transmitter:"), colorize(bold, p.Transmitter.Description))
	if p.Transmitter.Mode != "" {
		fmt.Printf(" (%s)", p.Transmitter.Mode)
	}
	fmt.Println()
	fmt.Printf("  %s up %s  down %s\n",
		colorize(dim, "Nominal:"),
		formatMHz(p.Transmitter.UplinkHz),
		formatMHz(p.Transmitter.DownlinkHz),
	)
	fmt.Printf("  %s %s → %s, max elev %.1f° (averaged over %d passes)\n",
		colorize(dim, "Next pass:"),
		formatPassTime(p.AOS), formatPassTime(p.LOS), p.MaxElev, p.PassesUsed,
	)
	fmt.Println()

	t := newTable("  ", "Ch", "Receive", "Transmit")
	for i, ch := range p.Channels {
		t.row(fmt.Sprintf("%d", i), formatChannelHz(ch.RxHz), formatChannelHz(ch.TxHz))
	}
	t.flush()
	fmt.Println()

	if len(p.Switches) == 0 {
		fmt.Println(colorize(dim, "  Single channel covers the whole pass."))
		fmt.Println()
		return
	}

	fmt.Println(colorize(dim, "  Switch schedule (local time):"))
	st := newTable("  ", "Time", "Ch", "Receive", "Transmit")
	for _, sw := range p.Switches {
		st.row(formatClock(sw.At), fmt.Sprintf("%d", sw.Channel), formatChannelHz(sw.RxHz), formatChannelHz(sw.TxHz))
	}
	st.flush()
	fmt.Println()
}

// formatChannelHz renders a channel frequency with 1 Hz precision. Plans
// need finer resolution than the MHz summary formatting.
func formatChannelHz(hz float64) string {
	if hz == 0 {
		return "—"
	}
	return fmt.Sprintf("%.6f MHz", hz/1e6)
}
