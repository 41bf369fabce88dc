package locator

import (
	"math"

	"parks/places"
	"parks/ui"
)

const (
	tileSize = 256
	minZoom  = 0
	maxZoom  = 21
)

// MapController tracks the browser map's view so searches can be scoped to
// what the user sees.
type MapController struct {
	tree          ui.Tree
	center        places.LatLng
	zoom          int
	width, height int
}

// NewMapController returns a controller for a map of the configured
// default view and size.
func NewMapController(tree ui.Tree, cfg Config) *MapController {
	return &MapController{
		tree:   tree,
		center: cfg.Center,
		zoom:   clampZoom(cfg.Zoom),
		width:  cfg.Width,
		height: cfg.Height,
	}
}

// Init creates the map widget with every control disabled and binds the
// address input to it.
func (m *MapController) Init(country string) error {
	return m.tree.Apply(ui.Op{
		Op: ui.OpMapInit,
		ID: ui.MapID,
		Map: &ui.MapOptions{
			Lat:     m.center.Lat,
			Lng:     m.center.Lng,
			Zoom:    m.zoom,
			Country: country,
			InputID: ui.AutocompleteID,
			InfoID:  ui.InfoContentID,
		},
	})
}

// Recenter pans the map to p.
func (m *MapController) Recenter(p places.LatLng) error {
	m.center = p
	return m.tree.Apply(ui.Op{Op: ui.OpMapPan, ID: ui.MapID, Lat: p.Lat, Lng: p.Lng})
}

// SetZoom changes the zoom level.
func (m *MapController) SetZoom(level int) error {
	m.zoom = clampZoom(level)
	return m.tree.Apply(ui.Op{Op: ui.OpMapZoom, ID: ui.MapID, Zoom: m.zoom})
}

// Resize records the map's size in pixels as reported by the browser.
// Non-positive sizes are ignored.
func (m *MapController) Resize(width, height int) {
	if width > 0 && height > 0 {
		m.width, m.height = width, height
	}
}

func (m *MapController) Center() places.LatLng { return m.center }
func (m *MapController) Zoom() int             { return m.zoom }

// Bounds returns the visible rectangle in Web Mercator, the projection the
// map widget draws with.
func (m *MapController) Bounds() places.Bounds {
	scale := tileSize * math.Exp2(float64(m.zoom))
	cx, cy := project(m.center, scale)
	halfW, halfH := float64(m.width)/2, float64(m.height)/2

	north := unprojectLat(math.Max(cy-halfH, 0), scale)
	south := unprojectLat(math.Min(cy+halfH, scale), scale)

	var west, east float64
	if float64(m.width) >= scale {
		west, east = -180, 180
	} else {
		west = wrapLng((cx-halfW)/scale*360 - 180)
		east = wrapLng((cx+halfW)/scale*360 - 180)
	}
	return places.Bounds{
		SW: places.LatLng{Lat: south, Lng: west},
		NE: places.LatLng{Lat: north, Lng: east},
	}
}

func project(p places.LatLng, scale float64) (x, y float64) {
	siny := math.Sin(p.Lat * math.Pi / 180)
	// keep away from the poles, which project to infinity
	siny = math.Min(math.Max(siny, -0.9999), 0.9999)
	x = (p.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)) * scale
	return x, y
}

func unprojectLat(y, scale float64) float64 {
	n := math.Pi * (1 - 2*y/scale)
	return math.Atan(math.Sinh(n)) * 180 / math.Pi
}

func wrapLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

func clampZoom(z int) int {
	if z < minZoom {
		return minZoom
	}
	if z > maxZoom {
		return maxZoom
	}
	return z
}
