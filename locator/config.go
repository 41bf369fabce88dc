package locator

import (
	"time"

	"parks/places"
)

// Config holds the locator's fixed parameters.
type Config struct {
	// Center and Zoom are the initial map view.
	Center places.LatLng
	Zoom   int
	// SelectZoom is applied when the user picks an address.
	SelectZoom int
	// Country restricts the address widget.
	Country string
	// Category is the place type searched for.
	Category string
	// Stagger separates consecutive marker reveals.
	Stagger time.Duration
	// Timeout bounds each service call.
	Timeout time.Duration
	// Width and Height are the assumed map size in pixels until the
	// browser reports its own.
	Width, Height int
}

// DefaultConfig is a map of the continental US searching for parks.
func DefaultConfig() Config {
	return Config{
		Center:     places.LatLng{Lat: 37.1, Lng: -95.7},
		Zoom:       4,
		SelectZoom: 15,
		Country:    "us",
		Category:   places.Category,
		Stagger:    100 * time.Millisecond,
		Timeout:    10 * time.Second,
		Width:      640,
		Height:     480,
	}
}
