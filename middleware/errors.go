// ABOUTME: JSON error response helper for middleware
// ABOUTME: Rejections use the same error shape the handlers produce

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// writeJSONError writes a rejection in the gateway's error shape, so the
// frontend parses middleware denials and handler errors the same way.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
