package locator

import (
	"fmt"

	"parks/places"
	"parks/ui"
)

// MarkerManager owns the markers of the current session.
type MarkerManager struct {
	tree    ui.Tree
	session uint64
	markers []*Marker
	onClick func(*Marker)
}

// NewMarkerManager returns a manager that calls onClick for every marker
// click, whether it came from the map or the sidebar.
func NewMarkerManager(tree ui.Tree, onClick func(*Marker)) *MarkerManager {
	return &MarkerManager{tree: tree, onClick: onClick}
}

// Clear removes every marker from the map and closes the info window
// anchored to any of them. Markers added afterwards belong to session.
func (mm *MarkerManager) Clear(session uint64) error {
	mm.session = session
	mm.markers = nil
	return mm.tree.Apply(
		ui.Op{Op: ui.OpMarkerClear, ID: ui.MapID},
		ui.Op{Op: ui.OpInfoClose, ID: ui.MapID},
	)
}

// AddDeferred creates the marker for result at index. It stays hidden until
// Show is called for it.
func (mm *MarkerManager) AddDeferred(result places.Place, index int) (*Marker, error) {
	if index != len(mm.markers) {
		return nil, fmt.Errorf("marker %d added out of order, have %d", index, len(mm.markers))
	}
	m := &Marker{Index: index, Place: result}
	mm.markers = append(mm.markers, m)
	err := mm.tree.Apply(ui.Op{
		Op:      ui.OpMarkerAdd,
		ID:      ui.MapID,
		Index:   index,
		Lat:     result.Location.Lat,
		Lng:     result.Location.Lng,
		Text:    result.Name,
		Drop:    true,
		Session: mm.session,
	})
	return m, err
}

// Show reveals marker index.
func (mm *MarkerManager) Show(index int) error {
	m, ok := mm.get(index)
	if !ok {
		return fmt.Errorf("show: no marker %d", index)
	}
	m.Visible = true
	return mm.tree.Apply(ui.Op{Op: ui.OpMarkerShow, ID: ui.MapID, Index: index})
}

// Click runs the click path of marker index. It reports false when there
// is no such marker.
func (mm *MarkerManager) Click(index int) bool {
	m, ok := mm.get(index)
	if !ok {
		return false
	}
	mm.onClick(m)
	return true
}

func (mm *MarkerManager) get(index int) (*Marker, bool) {
	if index < 0 || index >= len(mm.markers) {
		return nil, false
	}
	return mm.markers[index], true
}
