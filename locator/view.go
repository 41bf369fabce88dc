package locator

import (
	"time"

	"parks/places"
	"parks/ui"
)

// starUnits is the width of the rating row.
const starUnits = 5

// View is what a set of search results looks like on the page.
type View struct {
	Items     []Item
	NoneFound bool
}

// Item pairs result i with its marker and listing.
type Item struct {
	Index       int
	Place       places.Place
	RevealAfter time.Duration
}

// BuildView lays out results in service order, one item per result.
func BuildView(results []places.Place, stagger time.Duration) View {
	v := View{Items: make([]Item, len(results)), NoneFound: len(results) == 0}
	for i, r := range results {
		v.Items[i] = Item{Index: i, Place: r, RevealAfter: time.Duration(i) * stagger}
	}
	return v
}

// PopupView is the content of the details popup. A row whose Show flag is
// false is hidden.
type PopupView struct {
	IconHTML string
	LinkHTML string
	Address  string

	ShowPhone bool
	Phone     string

	ShowRating bool
	Rating     string

	ShowWebsite bool
	Website     string
}

// BuildPopup formats a place detail for the popup.
func BuildPopup(d places.Detail) PopupView {
	v := PopupView{
		IconHTML: ui.IconHTML(d.Icon),
		LinkHTML: ui.LinkHTML(d.URL, d.Name),
		Address:  d.Vicinity,
	}
	if d.Phone != "" {
		v.ShowPhone, v.Phone = true, d.Phone
	}
	if d.Rating != nil {
		v.ShowRating, v.Rating = true, ui.StarsText(Stars(*d.Rating))
	}
	if d.Website != "" {
		v.ShowWebsite, v.Website = true, d.Website
	}
	return v
}

// Stars reports for each of the five units whether it is filled. Unit i is
// filled when the rating reaches i + 0.5.
func Stars(rating float64) []bool {
	out := make([]bool, starUnits)
	for i := range out {
		out[i] = rating >= float64(i)+0.5
	}
	return out
}

// ops renders the popup view. Every row is shown or hidden explicitly so a
// previous popup never leaks into this one.
func (v PopupView) ops() []ui.Op {
	return []ui.Op{
		{Op: ui.OpHTML, ID: ui.IconID, HTML: v.IconHTML},
		{Op: ui.OpHTML, ID: ui.URLID, HTML: v.LinkHTML},
		{Op: ui.OpText, ID: ui.AddressID, Text: v.Address},
		{Op: ui.OpDisplay, ID: ui.PhoneRowID, Show: v.ShowPhone},
		{Op: ui.OpText, ID: ui.PhoneID, Text: v.Phone},
		{Op: ui.OpDisplay, ID: ui.RatingRowID, Show: v.ShowRating},
		{Op: ui.OpText, ID: ui.RatingID, Text: v.Rating},
		{Op: ui.OpDisplay, ID: ui.WebsiteRowID, Show: v.ShowWebsite},
		{Op: ui.OpText, ID: ui.WebsiteID, Text: v.Website},
	}
}
