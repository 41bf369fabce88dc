package locator

import (
	"math"
	"testing"

	"parks/places"
	"parks/ui"
)

func TestMapBoundsContainCenter(t *testing.T) {
	tests := []struct {
		center places.LatLng
		zoom   int
	}{
		{places.LatLng{Lat: 37.1, Lng: -95.7}, 4},
		{places.LatLng{Lat: 40.7128, Lng: -74.006}, 15},
		{places.LatLng{Lat: -33.86, Lng: 151.21}, 10},
		{places.LatLng{Lat: 0, Lng: 179.99}, 8},
	}
	for _, tt := range tests {
		m := NewMapController(ui.NewRecorder(), DefaultConfig())
		m.Recenter(tt.center)
		m.SetZoom(tt.zoom)
		b := m.Bounds()
		if !b.Valid() {
			t.Errorf("%v z%d: invalid bounds %+v", tt.center, tt.zoom, b)
			continue
		}
		if b.SW.Lat > tt.center.Lat || b.NE.Lat < tt.center.Lat {
			t.Errorf("%v z%d: latitude outside %+v", tt.center, tt.zoom, b)
		}
		c := b.Center()
		if math.Abs(c.Lng-tt.center.Lng) > 1e-6 && math.Abs(math.Abs(c.Lng-tt.center.Lng)-360) > 1e-6 {
			t.Errorf("%v z%d: bounds centred on %v", tt.center, tt.zoom, c)
		}
	}
}

func TestMapBoundsSpan(t *testing.T) {
	m := NewMapController(ui.NewRecorder(), DefaultConfig())
	m.Recenter(places.LatLng{Lat: 0, Lng: 0})
	m.SetZoom(1)
	m.Resize(256, 256)

	// 256px at zoom 1 is half the world
	b := m.Bounds()
	if math.Abs(b.SW.Lng+90) > 1e-9 || math.Abs(b.NE.Lng-90) > 1e-9 {
		t.Errorf("lng span = %v..%v, want -90..90", b.SW.Lng, b.NE.Lng)
	}

	m.SetZoom(0)
	b = m.Bounds()
	if b.SW.Lng != -180 || b.NE.Lng != 180 {
		t.Errorf("whole world expected at zoom 0, got %v..%v", b.SW.Lng, b.NE.Lng)
	}

	// the bigger the zoom, the smaller the radius
	m.SetZoom(15)
	small := m.Bounds().Radius()
	m.SetZoom(10)
	large := m.Bounds().Radius()
	if small >= large {
		t.Errorf("radius at zoom 15 (%d) not below zoom 10 (%d)", small, large)
	}
}

func TestMapControls(t *testing.T) {
	rec := ui.NewRecorder()
	m := NewMapController(rec, DefaultConfig())
	if err := m.Init("us"); err != nil {
		t.Fatal(err)
	}

	m.SetZoom(40)
	if m.Zoom() != maxZoom {
		t.Errorf("zoom = %d, want clamped to %d", m.Zoom(), maxZoom)
	}
	m.SetZoom(-2)
	if m.Zoom() != minZoom {
		t.Errorf("zoom = %d, want clamped to %d", m.Zoom(), minZoom)
	}

	m.Resize(0, 300)
	m.Resize(-1, -1)
	if m.width != 640 || m.height != 480 {
		t.Errorf("size changed to %dx%d by a bad resize", m.width, m.height)
	}

	if err := m.Recenter(places.LatLng{Lat: 1, Lng: 2}); err != nil {
		t.Fatal(err)
	}
	center, zoom := rec.View()
	if center.Lat != 1 || center.Lng != 2 || zoom != minZoom {
		t.Errorf("recorded view %v zoom %d", center, zoom)
	}
}
