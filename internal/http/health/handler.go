// Package health serves the liveness probe.
package health

import (
	"encoding/json"
	"net/http"
)

// Response is the health payload.
type Response struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// Handler reports the server as healthy together with the profile store in use.
func Handler(store string) http.HandlerFunc {
	body := Response{Status: "healthy", Store: store}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}
