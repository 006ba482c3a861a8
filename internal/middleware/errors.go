package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the JSON error envelope shared with the handlers
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
			"req_id":  RequestID(r.Context()),
		},
	}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, message, status)
	}
}
