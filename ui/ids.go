package ui

// Element IDs shared by the Go renderer and assets/index.html. Renaming one
// means changing both sides.
const (
	MapID          = "map"
	AutocompleteID = "autocomplete"
	ResultsID      = "results"
	NoneFoundID    = "noneFound"
	StatusID       = "status"
	InfoContentID  = "info-content"
	IconID         = "iw-icon"
	URLID          = "iw-url"
	AddressID      = "iw-address"
	PhoneRowID     = "iw-phone-row"
	PhoneID        = "iw-phone"
	RatingRowID    = "iw-rating-row"
	RatingID       = "iw-rating"
	WebsiteRowID   = "iw-website-row"
	WebsiteID      = "iw-website"
)

// IDs lists every bound element, in page order.
var IDs = []string{
	MapID, AutocompleteID, ResultsID, NoneFoundID, StatusID, InfoContentID,
	IconID, URLID, AddressID, PhoneRowID, PhoneID, RatingRowID, RatingID,
	WebsiteRowID, WebsiteID,
}
