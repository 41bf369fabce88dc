package locator

import (
	"fmt"

	"parks/places"
	"parks/ui"
)

// Sidebar renders the result listings next to the map.
type Sidebar struct {
	tree    ui.Tree
	session uint64
	entries []*Entry
	onClick func(index int)
}

// NewSidebar returns a sidebar whose entries forward clicks to onClick.
func NewSidebar(tree ui.Tree, onClick func(index int)) *Sidebar {
	return &Sidebar{tree: tree, onClick: onClick}
}

// Clear removes every listing. Listings rendered afterwards belong to
// session.
func (s *Sidebar) Clear(session uint64) error {
	s.session = session
	s.entries = nil
	return s.tree.Apply(ui.Op{Op: ui.OpClear, ID: ui.ResultsID})
}

// Render appends the listing for result at index and hides the
// "no results" placeholder.
func (s *Sidebar) Render(result places.Place, index int) (*Entry, error) {
	if index != len(s.entries) {
		return nil, fmt.Errorf("entry %d rendered out of order, have %d", index, len(s.entries))
	}
	e := &Entry{Index: index, Name: result.Name, Vicinity: result.Vicinity}
	s.entries = append(s.entries, e)
	err := s.tree.Apply(
		ui.Op{Op: ui.OpDisplay, ID: ui.NoneFoundID, Show: false},
		ui.Op{
			Op:      ui.OpAppend,
			ID:      ui.ResultsID,
			Index:   index,
			HTML:    ui.ListingHTML(index, e.Name, e.Vicinity),
			Session: s.session,
		},
	)
	return e, err
}

// ShowNoResults shows the "no results" placeholder.
func (s *Sidebar) ShowNoResults() error {
	return s.tree.Apply(ui.Op{Op: ui.OpDisplay, ID: ui.NoneFoundID, Show: true})
}

// Hover highlights entry index while the pointer is over it.
func (s *Sidebar) Hover(index int, on bool) error {
	if index < 0 || index >= len(s.entries) {
		return nil
	}
	e := s.entries[index]
	if e.Highlighted == on {
		return nil
	}
	e.Highlighted = on
	color := ""
	if on {
		color = ui.HighlightColor
	}
	return s.tree.Apply(ui.Op{Op: ui.OpHighlight, ID: ui.ResultsID, Index: index, Color: color})
}

// Click forwards a click on entry index.
func (s *Sidebar) Click(index int) {
	if index < 0 || index >= len(s.entries) {
		return
	}
	s.onClick(index)
}
