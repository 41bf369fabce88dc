package app

import (
	"encoding/json"
	"net/http"
	"strings"
)

// WantsJSON reports whether the client asked for a JSON response.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		r.URL.Query().Get("format") == "json"
}

// SendsJSON reports whether the request body is JSON.
func SendsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// RespondJSON writes v as a 200 JSON response.
func RespondJSON(w http.ResponseWriter, v interface{}) {
	writeJSON(w, http.StatusOK, v)
}

// RespondError writes {"error": msg} with the given status code.
func RespondError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// MethodNotAllowed rejects the request's method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondError(w, http.StatusMethodNotAllowed, r.Method+" not allowed")
}

// BadRequest reports invalid input.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	RespondError(w, http.StatusBadRequest, msg)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		Log("app", "json encode: %v", err)
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(b)
}
