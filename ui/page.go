package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed assets
var assets embed.FS

var pageTemplate = template.Must(template.ParseFS(assets, "assets/index.html"))

// PageIDs exposes the bound element IDs to the page template.
type PageIDs struct {
	Map, Autocomplete, Results, NoneFound, Status, InfoContent string
	Icon, URL, Address                                         string
	PhoneRow, Phone, RatingRow, Rating, WebsiteRow, Website    string
}

var pageIDs = PageIDs{
	Map: MapID, Autocomplete: AutocompleteID, Results: ResultsID,
	NoneFound: NoneFoundID, Status: StatusID, InfoContent: InfoContentID,
	Icon: IconID, URL: URLID, Address: AddressID,
	PhoneRow: PhoneRowID, Phone: PhoneID, RatingRow: RatingRowID, Rating: RatingID,
	WebsiteRow: WebsiteRowID, Website: WebsiteID,
}

// Page is the data the locator page is rendered with.
type Page struct {
	Title      string
	Subtitle   string
	BrowserKey string
	IDs        PageIDs
}

// RenderPage renders the locator page.
func RenderPage(title, subtitle, browserKey string) ([]byte, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, Page{
		Title:      title,
		Subtitle:   subtitle,
		BrowserKey: browserKey,
		IDs:        pageIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// PageHandler serves the locator page at exactly "/".
func PageHandler(title, subtitle, browserKey string) (http.Handler, error) {
	page, err := RenderPage(title, subtitle, browserKey)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}), nil
}

// AssetHandler serves the renderer script and stylesheet under /assets/.
func AssetHandler() http.Handler {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}
