package places

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is the place type every nearby search is restricted to.
const Category = "park"

// maxRadiusM is the largest radius the nearby search endpoint accepts.
const maxRadiusM = 50000

var (
	ErrNoAPIKey       = errors.New("places: GOOGLE_API_KEY not set")
	ErrRequestDenied  = errors.New("places: request denied")
	ErrOverQueryLimit = errors.New("places: over query limit")
	ErrInvalidRequest = errors.New("places: invalid request")
	ErrNotFound       = errors.New("places: not found")
)

// LatLng is a geographic point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p LatLng) String() string {
	return strconv.FormatFloat(p.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(p.Lng, 'f', 6, 64)
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("want lat,lng got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return LatLng{}, fmt.Errorf("%q out of range", s)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

// Bounds is a viewport rectangle given by its south-west and north-east corners.
type Bounds struct {
	SW LatLng `json:"sw"`
	NE LatLng `json:"ne"`
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() LatLng {
	lng := (b.SW.Lng + b.NE.Lng) / 2
	if b.SW.Lng > b.NE.Lng {
		// crosses the antimeridian
		lng += 180
		if lng > 180 {
			lng -= 360
		}
	}
	return LatLng{Lat: (b.SW.Lat + b.NE.Lat) / 2, Lng: lng}
}

// Radius returns the radius in metres of the circle around Center that
// covers the rectangle, clamped to what the nearby endpoint accepts.
func (b Bounds) Radius() int {
	c := b.Center()
	r := math.Max(haversine(c, b.NE), haversine(c, b.SW))
	radius := int(math.Ceil(r))
	if radius < 1 {
		radius = 1
	}
	if radius > maxRadiusM {
		radius = maxRadiusM
	}
	return radius
}

// Valid reports whether both corners are real coordinates.
func (b Bounds) Valid() bool {
	ok := func(p LatLng) bool {
		return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
	}
	return ok(b.SW) && ok(b.NE) && b.SW.Lat <= b.NE.Lat
}

// Place is a nearby search result.
type Place struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Location LatLng `json:"location"`
	Icon     string `json:"icon"`
}

// Detail is the extended record for one place. Optional fields are empty
// (or nil for Rating) when the service does not know them.
type Detail struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	URL      string   `json:"url"`
	Icon     string   `json:"icon"`
	Vicinity string   `json:"vicinity"`
	Phone    string   `json:"phone,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Website  string   `json:"website,omitempty"`
}

// Prediction is one address suggestion.
type Prediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}

// NearbyRequest asks for places of Type inside Bounds.
type NearbyRequest struct {
	Bounds Bounds
	Type   string
}

// Service is the places backend the locator talks to.
type Service interface {
	Nearby(ctx context.Context, req NearbyRequest) ([]Place, error)
	Details(ctx context.Context, placeID string) (Detail, error)
	Suggest(ctx context.Context, input, country string) ([]Prediction, error)
	Resolve(ctx context.Context, placeID string) (Place, error)
}

// haversine returns the great-circle distance in metres between two points.
func haversine(a, b LatLng) float64 {
	const R = 6371000 // Earth radius in metres
	φ1 := a.Lat * math.Pi / 180
	φ2 := b.Lat * math.Pi / 180
	Δφ := (b.Lat - a.Lat) * math.Pi / 180
	Δλ := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	return R * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
