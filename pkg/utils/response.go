package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"wasteflow-backend/internal/apperr"
)

// JSON writes data wrapped in the success envelope.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// Error writes a failure envelope with a stable code and message.
func Error(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    status,
		"error":   message,
	})
}

// Fail maps an error to the failure envelope: business errors carry their
// own code, anything else is an internal failure.
func Fail(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok {
		Error(w, appErr.Code, appErr.Message)
		return
	}
	log.Printf("❌ Internal error: %v", err)
	Error(w, http.StatusInternalServerError, "Something went wrong")
}
