package models

import "strings"

// House represents a physical residential unit grouping residents.
// The set of houses is fixed and small.
type House struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ResidentCount int    `json:"residentCount"` // declared capacity, not the live roster size
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Location      string `json:"location,omitempty"`
}

// Houses is the fixed enumerated set of residential units
var Houses = map[string]House{
	"shikma": {
		ID:            "shikma",
		Name:          "שיקמה",
		ResidentCount: 24,
		Icon:          "🏢",
		Color:         "bg-indigo-600",
		Location:      "הוסטל ותיקים",
	},
	"marzuk": {
		ID:            "marzuk",
		Name:          "מרזוק",
		ResidentCount: 6,
		Icon:          "🏠",
		Color:         "bg-blue-600",
		Location:      "דירת קהילה",
	},
	"savyon": {
		ID:            "savyon",
		Name:          "סביון",
		ResidentCount: 10,
		Icon:          "🏡",
		Color:         "bg-cyan-600",
		Location:      "דירת מעבר",
	},
	"revadim": {
		ID:            "revadim",
		Name:          "רבדים",
		ResidentCount: 13,
		Icon:          "🏛️",
		Color:         "bg-emerald-600",
		Location:      "ראשון לציון",
	},
}

// HouseByID looks a house up by its identifier
func HouseByID(id string) (House, bool) {
	h, ok := Houses[id]
	return h, ok
}

// HouseByName looks a house up by its display name
func HouseByName(name string) (House, bool) {
	for _, h := range Houses {
		if h.Name == name {
			return h, true
		}
	}
	return House{}, false
}

// Prefix returns the two-letter code used in resident ids (e.g. "MA" for marzuk)
func (h House) Prefix() string {
	if len(h.ID) < 2 {
		return strings.ToUpper(h.ID)
	}
	return strings.ToUpper(h.ID[:2])
}
