package ui

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// Listing colours.
const (
	ListingColor   = "#F0F0F0"
	HighlightColor = "#d9d9d9"
)

// Rating glyphs.
const (
	FilledStar   = "\u272D"
	UnfilledStar = "\u2729"
)

// ListingHTML renders one sidebar entry. The browser wires clicks and hover
// on the element carrying data-index.
func ListingHTML(index int, name, vicinity string) string {
	return fmt.Sprintf(`<div class="resultListing" data-index="%d" style="background-color:%s;padding:10px 20px;border-top:1px solid #dbdbdb"><h4 class="resultListingName">%s</h4><small>%s</small></div>`,
		index, ListingColor, html.EscapeString(name), html.EscapeString(vicinity))
}

// IconHTML renders the popup icon.
func IconHTML(src string) string {
	return `<img class="parkIcon" src="` + html.EscapeString(safeURL(src)) + `"/>`
}

// LinkHTML renders the popup title linking to the place's canonical page.
func LinkHTML(href, name string) string {
	return `<b><a href="` + html.EscapeString(safeURL(href)) + `">` + html.EscapeString(name) + `</a></b>`
}

// StarsText renders one glyph per unit.
func StarsText(filled []bool) string {
	var b strings.Builder
	for _, f := range filled {
		if f {
			b.WriteString(FilledStar)
		} else {
			b.WriteString(UnfilledStar)
		}
	}
	return b.String()
}

// safeURL lets through only http(s) URLs.
func safeURL(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "#"
	}
	return u.String()
}
