package handler

import (
	"encoding/json"
	"net/http"
)

// Handler answers liveness probes. It needs neither the database nor Redis.
func Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]interface{}{
		"status":  "ok",
		"message": "Storefront API",
		"path":    r.URL.Path,
	}

	_ = json.NewEncoder(w).Encode(response)
}
