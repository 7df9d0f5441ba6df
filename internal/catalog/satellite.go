// Package catalog holds the amateur satellite catalog and fetches
// transmitter frequencies for each bird from the SatNOGS database.
package catalog

import "strings"

// Satellite describes one amateur bird: its common name and NORAD catalog
// number. Frequencies come from SatNOGS per transmitter, not from here.
type Satellite struct {
	Name    string `json:"name"`
	NoradID int    `json:"norad_id"`
}

// Satellites is the catalog of amateur satellites the planner knows about.
var Satellites = []Satellite{
	{Name: "AO-7", NoradID: 7530},
	{Name: "ISS", NoradID: 25544},
	{Name: "SO-50", NoradID: 27607},
	{Name: "AO-73", NoradID: 39444},
	{Name: "AO-91", NoradID: 43017},
	{Name: "AO-92", NoradID: 43137},
}

// ByNoradID returns the satellite with the given NORAD catalog ID, or nil
// if not found.
func ByNoradID(id int) *Satellite {
	for i := range Satellites {
		if Satellites[i].NoradID == id {
			return &Satellites[i]
		}
	}
	return nil
}

// ByName returns the first satellite whose name contains the given text
// (case-insensitive), or nil if not found.
func ByName(name string) *Satellite {
	upper := strings.ToUpper(name)
	for i := range Satellites {
		if strings.Contains(strings.ToUpper(Satellites[i].Name), upper) {
			return &Satellites[i]
		}
	}
	return nil
}
