package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

// writeJSON writes j s o n.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes error.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRateLimited writes a 429 with a Retry-After hint rounded up to
// whole seconds.
func writeRateLimited(w http.ResponseWriter, retryAfter time.Duration, message string) {
	if retryAfter > 0 {
		seconds := int64(math.Ceil(retryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}
	writeError(w, http.StatusTooManyRequests, message)
}
