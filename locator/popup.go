package locator

import (
	"parks/app"
	"parks/places"
	"parks/ui"
)

// FetchFunc looks up a place's details and calls done with the outcome on
// the event loop.
type FetchFunc func(placeID string, done func(places.Detail, error))

// Popup shows the details of a clicked marker. Only the most recent Open
// may render; earlier responses are dropped.
type Popup struct {
	tree   ui.Tree
	status StatusLine
	fetch  FetchFunc
	token  uint64
}

func NewPopup(tree ui.Tree, fetch FetchFunc) *Popup {
	return &Popup{tree: tree, status: StatusLine{tree: tree}, fetch: fetch}
}

// Open requests the details of m and, once they arrive, fills the popup and
// anchors it to m.
func (p *Popup) Open(m *Marker) {
	p.token++
	token := p.token
	p.fetch(m.Place.ID, func(d places.Detail, err error) {
		if err := p.loaded(token, m, d, err); err != nil {
			app.Log("locator", "popup: %v", err)
		}
	})
}

// Reset drops any outstanding request. The info window itself is closed
// with the markers.
func (p *Popup) Reset() {
	p.token++
}

func (p *Popup) loaded(token uint64, m *Marker, d places.Detail, err error) error {
	if token != p.token {
		return nil
	}
	if err != nil {
		app.Log("locator", "details %s: %v", m.Place.ID, err)
		return p.status.Show(DetailsUnavailable)
	}
	ops := append(BuildPopup(d).ops(),
		ui.Op{Op: ui.OpDisplay, ID: ui.StatusID, Show: false},
		ui.Op{Op: ui.OpInfoOpen, ID: ui.MapID, Index: m.Index},
	)
	return p.tree.Apply(ops...)
}
