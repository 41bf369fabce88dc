package locator

import "parks/ui"

// Status messages shown when a service call fails.
const (
	SearchFailed       = "Search failed. Please try again."
	DetailsUnavailable = "Details unavailable."
)

// StatusLine is the one-line message under the address box.
type StatusLine struct {
	tree ui.Tree
}

func (s StatusLine) Show(msg string) error {
	return s.tree.Apply(
		ui.Op{Op: ui.OpText, ID: ui.StatusID, Text: msg},
		ui.Op{Op: ui.OpDisplay, ID: ui.StatusID, Show: true},
	)
}

func (s StatusLine) Hide() error {
	return s.tree.Apply(ui.Op{Op: ui.OpDisplay, ID: ui.StatusID, Show: false})
}
