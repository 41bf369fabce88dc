package locator

import (
	"parks/places"
	"parks/ui"
)

// AddressPrompt is shown in the address box when a submission could not be
// resolved to a location.
const AddressPrompt = "Enter An Address"

// Autocomplete adapts the browser's address widget. The input it prompts
// is fixed at construction.
type Autocomplete struct {
	tree    ui.Tree
	inputID string
	country string
}

func NewAutocomplete(tree ui.Tree, inputID, country string) *Autocomplete {
	return &Autocomplete{tree: tree, inputID: inputID, country: country}
}

// Country is the restriction the widget was created with.
func (a *Autocomplete) Country() string { return a.country }

// PlaceChanged handles a selection from the widget. It reports the chosen
// location, or prompts for an address and reports false when the
// selection has none.
func (a *Autocomplete) PlaceChanged(p *ui.SelectedPlace) (places.LatLng, bool, error) {
	if p == nil || p.Location == nil {
		return places.LatLng{}, false, a.PromptForAddress()
	}
	return places.LatLng{Lat: p.Location.Lat, Lng: p.Location.Lng}, true, nil
}

// PromptForAddress sets the input's placeholder.
func (a *Autocomplete) PromptForAddress() error {
	return a.tree.Apply(ui.Op{Op: ui.OpPlaceholder, ID: a.inputID, Text: AddressPrompt})
}
