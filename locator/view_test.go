package locator

import (
	"testing"
	"time"

	"parks/places"
	"parks/ui"
)

func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		want   string
	}{
		{0, "✩✩✩✩✩"},
		{0.4, "✩✩✩✩✩"},
		{0.5, "✭✩✩✩✩"},
		{2.4, "✭✭✩✩✩"},
		{2.5, "✭✭✭✩✩"},
		{4.4, "✭✭✭✭✩"},
		{4.9, "✭✭✭✭✭"},
		{5.0, "✭✭✭✭✭"},
	}
	for _, tt := range tests {
		got := ui.StarsText(Stars(tt.rating))
		if got != tt.want {
			t.Errorf("Stars(%v) = %s, want %s", tt.rating, got, tt.want)
		}
	}
}

func TestBuildView(t *testing.T) {
	v := BuildView(parks("a", 3), 100*time.Millisecond)
	if v.NoneFound {
		t.Error("NoneFound set for non-empty results")
	}
	if len(v.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(v.Items))
	}
	for i, it := range v.Items {
		if it.Index != i {
			t.Errorf("item %d has index %d", i, it.Index)
		}
		if want := time.Duration(i) * 100 * time.Millisecond; it.RevealAfter != want {
			t.Errorf("item %d reveals after %v, want %v", i, it.RevealAfter, want)
		}
		if it.Place.ID != parks("a", 3)[i].ID {
			t.Errorf("item %d out of service order", i)
		}
	}

	empty := BuildView(nil, 100*time.Millisecond)
	if !empty.NoneFound || len(empty.Items) != 0 {
		t.Errorf("empty view = %+v", empty)
	}
}

func TestBuildPopup(t *testing.T) {
	zero := 0.0
	four := 4.2

	t.Run("all fields", func(t *testing.T) {
		v := BuildPopup(places.Detail{
			Name:     "Central Park",
			URL:      "https://maps.google.com/?cid=1",
			Icon:     "https://maps.gstatic.com/park.png",
			Vicinity: "New York",
			Phone:    "(212) 310-6600",
			Rating:   &four,
			Website:  "https://www.centralparknyc.org/",
		})
		if !v.ShowPhone || !v.ShowRating || !v.ShowWebsite {
			t.Errorf("expected every row shown: %+v", v)
		}
		if v.Rating != "✭✭✭✭✩" {
			t.Errorf("rating = %s", v.Rating)
		}
		if v.Address != "New York" || v.Website != "https://www.centralparknyc.org/" {
			t.Errorf("unexpected text fields: %+v", v)
		}
	})

	t.Run("missing fields hide rows", func(t *testing.T) {
		v := BuildPopup(places.Detail{Name: "Lot"})
		if v.ShowPhone || v.ShowRating || v.ShowWebsite {
			t.Errorf("expected optional rows hidden: %+v", v)
		}
	})

	t.Run("zero rating is shown", func(t *testing.T) {
		v := BuildPopup(places.Detail{Name: "Lot", Rating: &zero})
		if !v.ShowRating || v.Rating != "✩✩✩✩✩" {
			t.Errorf("rating row = %v %q", v.ShowRating, v.Rating)
		}
	})

	t.Run("every row toggled", func(t *testing.T) {
		seen := map[string]bool{}
		for _, op := range BuildPopup(places.Detail{}).ops() {
			if op.Op == ui.OpDisplay {
				seen[op.ID] = true
			}
		}
		for _, id := range []string{ui.PhoneRowID, ui.RatingRowID, ui.WebsiteRowID} {
			if !seen[id] {
				t.Errorf("%s not toggled", id)
			}
		}
	})
}
