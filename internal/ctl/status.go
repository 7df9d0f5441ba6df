package ctl

import (
	"fmt"
	"strings"
	"time"
)

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var s struct {
		Name          string `json:"name"`
		State         string `json:"state"`
		Mode          string `json:"mode"`
		UptimeSeconds int64  `json:"uptime_seconds"`
		DataRoot      string `json:"data_root"`
		Station       struct {
			Lat          float64 `json:"lat"`
			Lon          float64 `json:"lon"`
			Alt          float64 `json:"alt"`
			MinElevation float64 `json:"min_elevation"`
		} `json:"station"`
		Disk *struct {
			TotalBytes     int64 `json:"total_bytes"`
			AvailableBytes int64 `json:"available_bytes"`
		} `json:"disk"`
	}
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)

	fmt.Println()
	fmt.Println(header("  DOPPLERD STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 42)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Mode:"), s.Mode)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %.4f, %.4f, %.0fm (min elev %.0f°)\n",
		colorize(dim, "Station:"),
		s.Station.Lat, s.Station.Lon, s.Station.Alt, s.Station.MinElevation,
	)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Cache dir:"), s.DataRoot)
	if s.Disk != nil {
		fmt.Printf("  %-12s %s free\n", colorize(dim, "Disk:"), formatBytes(s.Disk.AvailableBytes))
	}
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), baseURL)
	fmt.Println()

	return nil
}
