package ctl

import (
	"fmt"
	"strings"
)

// Satellites lists the amateur satellite catalog from the daemon.
func Satellites(baseURL string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var resp struct {
		Satellites []struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
		} `json:"satellites"`
	}
	if err := getJSON(baseURL, "/api/satellites", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  SATELLITE CATALOG"))

	t := newTable("  ", "Name", "NORAD ID")
	for _, s := range resp.Satellites {
		t.row(s.Name, fmt.Sprintf("%d", s.NoradID))
	}
	t.flush()
	fmt.Println()

	return nil
}
