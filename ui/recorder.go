package ui

import (
	"fmt"
	"sync"
)

// Element is the recorded state of one bound DOM element.
type Element struct {
	Display     bool
	Text        string
	HTML        string
	Placeholder string
}

// Listing is one child of the results container.
type Listing struct {
	Index   int
	Session uint64
	HTML    string
	Color   string
}

// RecordedMarker is one marker on the recorded map.
type RecordedMarker struct {
	Index   int
	Lat     float64
	Lng     float64
	Title   string
	Visible bool
	Drop    bool
	Session uint64
}

// Recorder is an in-memory Tree. It keeps the resulting page state so the
// locator can be driven without a browser.
type Recorder struct {
	mu       sync.Mutex
	ops      []Op
	elems    map[string]*Element
	listings []Listing
	markers  []RecordedMarker
	mapOpts  *MapOptions
	center   LatLng
	zoom     int
	infoOpen int
}

// NewRecorder returns a page with every bound element displayed and the
// info window closed.
func NewRecorder() *Recorder {
	r := &Recorder{elems: make(map[string]*Element), infoOpen: -1}
	for _, id := range IDs {
		r.elems[id] = &Element{Display: true}
	}
	return r
}

// Apply implements Tree.
func (r *Recorder) Apply(ops ...Op) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, op := range ops {
		if err := r.apply(op); err != nil {
			return err
		}
		r.ops = append(r.ops, op)
	}
	return nil
}

func (r *Recorder) apply(op Op) error {
	switch op.Op {
	case OpMapInit:
		if op.Map == nil {
			return fmt.Errorf("%s without options", op.Op)
		}
		m := *op.Map
		r.mapOpts = &m
		r.center = LatLng{Lat: m.Lat, Lng: m.Lng}
		r.zoom = m.Zoom
	case OpMapPan:
		r.center = LatLng{Lat: op.Lat, Lng: op.Lng}
	case OpMapZoom:
		r.zoom = op.Zoom
	case OpMarkerAdd:
		r.markers = append(r.markers, RecordedMarker{
			Index: op.Index, Lat: op.Lat, Lng: op.Lng, Title: op.Text, Drop: op.Drop,
			Session: op.Session,
		})
	case OpMarkerShow:
		m := r.marker(op.Index)
		if m == nil {
			return fmt.Errorf("%s: no marker %d", op.Op, op.Index)
		}
		m.Visible = true
	case OpMarkerClear:
		r.markers = nil
	case OpInfoOpen:
		if r.marker(op.Index) == nil {
			return fmt.Errorf("%s: no marker %d", op.Op, op.Index)
		}
		r.infoOpen = op.Index
	case OpInfoClose:
		r.infoOpen = -1
	case OpClear:
		if op.ID == ResultsID {
			r.listings = nil
			return nil
		}
		e, err := r.elem(op)
		if err != nil {
			return err
		}
		e.HTML, e.Text = "", ""
	case OpAppend:
		if op.ID != ResultsID {
			return fmt.Errorf("%s: unsupported parent %q", op.Op, op.ID)
		}
		r.listings = append(r.listings, Listing{Index: op.Index, Session: op.Session, HTML: op.HTML})
	case OpHighlight:
		for i := range r.listings {
			if r.listings[i].Index == op.Index {
				r.listings[i].Color = op.Color
				return nil
			}
		}
		return fmt.Errorf("%s: no listing %d", op.Op, op.Index)
	case OpDisplay, OpText, OpHTML, OpPlaceholder:
		e, err := r.elem(op)
		if err != nil {
			return err
		}
		switch op.Op {
		case OpDisplay:
			e.Display = op.Show
		case OpText:
			e.Text, e.HTML = op.Text, ""
		case OpHTML:
			e.HTML, e.Text = op.HTML, ""
		case OpPlaceholder:
			e.Placeholder = op.Text
		}
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}

func (r *Recorder) elem(op Op) (*Element, error) {
	e, ok := r.elems[op.ID]
	if !ok {
		return nil, fmt.Errorf("%s: unknown element %q", op.Op, op.ID)
	}
	return e, nil
}

func (r *Recorder) marker(index int) *RecordedMarker {
	for i := range r.markers {
		if r.markers[i].Index == index {
			return &r.markers[i]
		}
	}
	return nil
}

// Ops returns every op applied so far.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Element returns the state of a bound element.
func (r *Recorder) Element(id string) Element {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.elems[id]; ok {
		return *e
	}
	return Element{}
}

// Listings returns the children of the results container.
func (r *Recorder) Listings() []Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Listing(nil), r.listings...)
}

// Markers returns the markers currently on the map.
func (r *Recorder) Markers() []RecordedMarker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedMarker(nil), r.markers...)
}

// VisibleMarkers counts markers whose reveal has fired.
func (r *Recorder) VisibleMarkers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.markers {
		if m.Visible {
			n++
		}
	}
	return n
}

// InfoOpen returns the index of the marker the info window is anchored to,
// or -1 when it is closed.
func (r *Recorder) InfoOpen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoOpen
}

// View returns the map centre and zoom.
func (r *Recorder) View() (LatLng, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.center, r.zoom
}

// MapOptions returns the options the map was created with, or nil.
func (r *Recorder) MapOptions() *MapOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mapOpts == nil {
		return nil
	}
	m := *r.mapOpts
	return &m
}
