package ui

// Op kinds understood by the browser renderer.
const (
	OpMapInit     = "map.init"
	OpMapPan      = "map.pan"
	OpMapZoom     = "map.zoom"
	OpMarkerAdd   = "marker.add"
	OpMarkerShow  = "marker.show"
	OpMarkerClear = "marker.clear"
	OpInfoOpen    = "info.open"
	OpInfoClose   = "info.close"
	OpDisplay     = "dom.display"
	OpText        = "dom.text"
	OpHTML        = "dom.html"
	OpPlaceholder = "dom.placeholder"
	OpClear       = "dom.clear"
	OpAppend      = "dom.append"
	OpHighlight   = "dom.highlight"
)

// Op is one render instruction. Which fields matter depends on Op.
type Op struct {
	Op    string  `json:"op"`
	ID    string  `json:"id,omitempty"`
	Index int     `json:"index"`
	Text  string  `json:"text,omitempty"`
	HTML  string  `json:"html,omitempty"`
	Show  bool    `json:"show"`
	Lat   float64 `json:"lat,omitempty"`
	Lng   float64 `json:"lng,omitempty"`
	Zoom  int     `json:"zoom,omitempty"`
	Color string  `json:"color,omitempty"`
	Drop  bool    `json:"drop,omitempty"`

	// Session tags markers and listings so the browser can echo it back
	// with clicks and hovers on them.
	Session uint64      `json:"session,omitempty"`
	Map     *MapOptions `json:"map,omitempty"`
}

// MapOptions configures the map widget when it is created.
type MapOptions struct {
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	Zoom              int     `json:"zoom"`
	Country           string  `json:"country"`
	MapTypeControl    bool    `json:"mapTypeControl"`
	PanControl        bool    `json:"panControl"`
	ZoomControl       bool    `json:"zoomControl"`
	StreetViewControl bool    `json:"streetViewControl"`

	// InputID and InfoID name the autocomplete input and the element
	// shown inside the info window.
	InputID string `json:"inputId"`
	InfoID  string `json:"infoId"`
}

// Tree is the page as seen from Go: a target for render ops.
type Tree interface {
	Apply(ops ...Op) error
}

// Event types sent by the browser.
const (
	EventViewport     = "viewport"
	EventPlaceChanged = "place_changed"
	EventMarkerClick  = "marker_click"
	EventEntryClick   = "entry_click"
	EventEntryHover   = "entry_hover"
)

// Event is a user interaction reported by the browser. Clicks and hovers
// carry the session of the marker or listing they came from.
type Event struct {
	Type    string `json:"type"`
	Index   int    `json:"index"`
	Hover   bool   `json:"hover"`
	Session uint64 `json:"session,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`

	// Place is set for place_changed. Location is nil when the user
	// submitted free text the widget could not resolve.
	Place *SelectedPlace `json:"place,omitempty"`
}

// SelectedPlace is what the autocomplete widget reports on selection.
type SelectedPlace struct {
	PlaceID  string  `json:"place_id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Location *LatLng `json:"location,omitempty"`
}

// LatLng mirrors google.maps.LatLngLiteral.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
