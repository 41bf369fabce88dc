package places

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	sanitize "github.com/mrz1836/go-sanitize"

	"parks/app"
)

// maxInputLen caps autocomplete input forwarded upstream.
const maxInputLen = 200

// Handler serves the JSON places API:
//
//	GET /places/nearby?sw=lat,lng&ne=lat,lng
//	GET /places/details?id=PLACE_ID
//	GET /places/suggest?q=ADDRESS
//	GET /places/resolve?id=PLACE_ID
func Handler(svc Service, country string, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			app.MethodNotAllowed(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		switch strings.TrimSuffix(r.URL.Path, "/") {
		case "/places/nearby":
			handleNearby(ctx, w, r, svc)
		case "/places/details":
			handleDetails(ctx, w, r, svc)
		case "/places/suggest":
			handleSuggest(ctx, w, r, svc, country)
		case "/places/resolve":
			handleResolve(ctx, w, r, svc)
		default:
			app.RespondError(w, http.StatusNotFound, "not found")
		}
	}
}

func handleNearby(ctx context.Context, w http.ResponseWriter, r *http.Request, svc Service) {
	q := r.URL.Query()
	sw, err := ParseLatLng(q.Get("sw"))
	if err != nil {
		app.BadRequest(w, r, "Invalid sw: "+err.Error())
		return
	}
	ne, err := ParseLatLng(q.Get("ne"))
	if err != nil {
		app.BadRequest(w, r, "Invalid ne: "+err.Error())
		return
	}
	b := Bounds{SW: sw, NE: ne}
	if !b.Valid() {
		app.BadRequest(w, r, "sw must be south of ne")
		return
	}

	results, err := svc.Nearby(ctx, NearbyRequest{Bounds: b, Type: Category})
	if err != nil {
		respondServiceError(w, "Search failed. Please try again.", err)
		return
	}
	app.RespondJSON(w, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func handleDetails(ctx context.Context, w http.ResponseWriter, r *http.Request, svc Service) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		app.BadRequest(w, r, "Place id required")
		return
	}
	d, err := svc.Details(ctx, id)
	if err != nil {
		respondServiceError(w, "Details unavailable.", err)
		return
	}
	app.RespondJSON(w, d)
}

func handleSuggest(ctx context.Context, w http.ResponseWriter, r *http.Request, svc Service, country string) {
	input := CleanInput(r.URL.Query().Get("q"))
	if input == "" {
		app.RespondJSON(w, map[string]interface{}{"predictions": []Prediction{}})
		return
	}
	preds, err := svc.Suggest(ctx, input, country)
	if err != nil {
		respondServiceError(w, "Suggestions unavailable.", err)
		return
	}
	app.RespondJSON(w, map[string]interface{}{"predictions": preds})
}

func handleResolve(ctx context.Context, w http.ResponseWriter, r *http.Request, svc Service) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		app.BadRequest(w, r, "Place id required")
		return
	}
	p, err := svc.Resolve(ctx, id)
	if err != nil {
		respondServiceError(w, "Could not find that address.", err)
		return
	}
	app.RespondJSON(w, p)
}

// CleanInput strips markup and line breaks from free text typed into the
// address box and caps its length.
func CleanInput(s string) string {
	s = sanitize.SingleLine(sanitize.XSS(sanitize.HTML(sanitize.Scripts(s))))
	s = strings.TrimSpace(s)
	if len(s) > maxInputLen {
		s = s[:maxInputLen]
		// back off a split multi-byte character
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}

func respondServiceError(w http.ResponseWriter, msg string, err error) {
	code := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrInvalidRequest):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrOverQueryLimit):
		code = http.StatusTooManyRequests
	case errors.Is(err, ErrNoAPIKey):
		code = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	app.Log("places", "%s: %v", msg, err)
	app.RespondError(w, code, msg)
}
