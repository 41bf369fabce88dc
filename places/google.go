package places

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
	"googlemaps.github.io/maps"

	"parks/app"
)

// maxConcurrentCalls bounds in-flight requests to the Google Places API.
const maxConcurrentCalls = 8

// detailFields is the field mask for details lookups; billing is per field
// group so only what the popup shows is requested.
var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskURL,
	maps.PlaceDetailsFieldMaskIcon,
	maps.PlaceDetailsFieldMaskVicinity,
	maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
	maps.PlaceDetailsFieldMaskRatings,
	maps.PlaceDetailsFieldMaskWebsite,
}

var resolveFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskPlaceID,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskVicinity,
	maps.PlaceDetailsFieldMaskGeometry,
	maps.PlaceDetailsFieldMaskIcon,
}

// Client is a Service backed by the Google Places web service.
type Client struct {
	maps    *maps.Client
	sem     *semaphore.Weighted
	group   singleflight.Group
	timeout time.Duration
}

// NewClient creates a Google Places client. Extra options are passed to the
// underlying maps client (tests point it at a local server with
// maps.WithBaseURL).
func NewClient(apiKey string, timeout time.Duration, opts ...maps.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	mc, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("places client: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		maps:    mc,
		sem:     semaphore.NewWeighted(maxConcurrentCalls),
		timeout: timeout,
	}, nil
}

// Nearby runs a nearby search over the circle covering req.Bounds. Results
// keep the order the service returned them in.
func (c *Client) Nearby(ctx context.Context, req NearbyRequest) ([]Place, error) {
	if !req.Bounds.Valid() {
		return nil, fmt.Errorf("%w: bounds %v", ErrInvalidRequest, req.Bounds)
	}
	center := req.Bounds.Center()
	r := &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: center.Lat, Lng: center.Lng},
		Radius:   uint(req.Bounds.Radius()),
		Type:     maps.PlaceType(req.Type),
	}

	var resp maps.PlacesSearchResponse
	err := c.call(ctx, "nearbysearch", func(ctx context.Context) (err error) {
		resp, err = c.maps.NearbySearch(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	// ZERO_RESULTS is a success status for the maps client
	return parseGooglePlaces(resp.Results), nil
}

// Details fetches the popup fields for one place. Concurrent lookups of the
// same place share a single request, which runs detached from the first
// caller's cancellation and is bounded by the client timeout alone.
func (c *Client) Details(ctx context.Context, placeID string) (Detail, error) {
	if placeID == "" {
		return Detail{}, fmt.Errorf("%w: empty place id", ErrInvalidRequest)
	}
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("details:"+placeID, func() (interface{}, error) {
		var res maps.PlaceDetailsResult
		err := c.call(shared, "details", func(ctx context.Context) (err error) {
			res, err = c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
				PlaceID: placeID,
				Fields:  detailFields,
			})
			return err
		})
		if err != nil {
			return Detail{}, err
		}
		return parseGoogleDetail(res), nil
	})
	if err != nil {
		return Detail{}, err
	}
	return v.(Detail), nil
}

// Suggest returns address predictions restricted to country.
func (c *Client) Suggest(ctx context.Context, input, country string) ([]Prediction, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []Prediction{}, nil
	}
	r := &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeAddress,
	}
	if country != "" {
		r.Components = map[maps.Component][]string{maps.ComponentCountry: {country}}
	}

	var resp maps.AutocompleteResponse
	err := c.call(ctx, "autocomplete", func(ctx context.Context) (err error) {
		resp, err = c.maps.PlaceAutocomplete(ctx, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Prediction{PlaceID: p.PlaceID, Description: p.Description})
	}
	return out, nil
}

// Resolve turns a predicted place ID into a place with geometry.
func (c *Client) Resolve(ctx context.Context, placeID string) (Place, error) {
	if placeID == "" {
		return Place{}, fmt.Errorf("%w: empty place id", ErrInvalidRequest)
	}
	var res maps.PlaceDetailsResult
	err := c.call(ctx, "resolve", func(ctx context.Context) (err error) {
		res, err = c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
			PlaceID: placeID,
			Fields:  resolveFields,
		})
		return err
	})
	if err != nil {
		return Place{}, err
	}
	return Place{
		ID:       res.PlaceID,
		Name:     res.Name,
		Vicinity: res.Vicinity,
		Icon:     res.Icon,
		Location: LatLng{Lat: res.Geometry.Location.Lat, Lng: res.Geometry.Location.Lng},
	}, nil
}

// call runs fn under the concurrency limit and per-call timeout, records it
// in the API log and classifies the upstream status.
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("google places %s: waiting for a slot: %w", op, err)
	}
	defer c.sem.Release(1)

	start := time.Now()
	err := classify(fn(ctx))
	app.RecordAPICall("google", "GET", op, statusOf(err), time.Since(start), err)
	if err != nil {
		app.Log("places", "google %s failed: %v", op, err)
		return fmt.Errorf("google places %s: %w", op, err)
	}
	return nil
}

// classify maps the maps client's "maps: STATUS - message" errors onto
// the package's sentinel errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "REQUEST_DENIED"):
		return fmt.Errorf("%w: %w", ErrRequestDenied, err)
	case strings.Contains(msg, "OVER_QUERY_LIMIT"):
		return fmt.Errorf("%w: %w", ErrOverQueryLimit, err)
	case strings.Contains(msg, "INVALID_REQUEST"):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	case strings.Contains(msg, "NOT_FOUND"):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrRequestDenied):
		return "REQUEST_DENIED"
	case errors.Is(err, ErrOverQueryLimit):
		return "OVER_QUERY_LIMIT"
	case errors.Is(err, ErrInvalidRequest):
		return "INVALID_REQUEST"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	}
	return "ERROR"
}

// parseGooglePlaces converts search results, one Place per result.
func parseGooglePlaces(results []maps.PlacesSearchResult) []Place {
	out := make([]Place, 0, len(results))
	for _, r := range results {
		out = append(out, Place{
			ID:       r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Icon:     r.Icon,
			Location: LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		})
	}
	return out
}

// parseGoogleDetail converts a details result. The API reports ratings in
// 1.0-5.0, so a zero rating means the place has none.
func parseGoogleDetail(r maps.PlaceDetailsResult) Detail {
	d := Detail{
		ID:       r.PlaceID,
		Name:     r.Name,
		URL:      r.URL,
		Icon:     r.Icon,
		Vicinity: r.Vicinity,
		Phone:    r.FormattedPhoneNumber,
		Website:  r.Website,
	}
	if r.Rating > 0 {
		rating := math.Round(float64(r.Rating)*10) / 10
		d.Rating = &rating
	}
	return d
}
