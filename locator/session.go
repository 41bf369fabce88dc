package locator

import "parks/places"

// Marker is the map pin for one result.
type Marker struct {
	Index   int
	Place   places.Place
	Visible bool
}

// Entry is the sidebar listing for one result. It shares its index with
// the marker for the same result.
type Entry struct {
	Index       int
	Name        string
	Vicinity    string
	Highlighted bool
}

// Session is the outcome of one successful nearby search. A new search
// replaces it wholesale.
type Session struct {
	ID      uint64
	Bounds  places.Bounds
	Results []places.Place
	Markers []*Marker
	Entries []*Entry
}

// Marker returns marker i of the session.
func (s *Session) Marker(i int) (*Marker, bool) {
	if s == nil || i < 0 || i >= len(s.Markers) {
		return nil, false
	}
	return s.Markers[i], true
}
