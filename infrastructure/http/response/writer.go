package response

import (
	"encoding/json"
	"net/http"
)

// Bodies are written without an envelope: payloads are returned as-is and
// errors carry a single "message" field.

type messageBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func Message(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, messageBody{Message: message})
}

func BadRequest(w http.ResponseWriter, message string) {
	Message(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Message(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Message(w, http.StatusForbidden, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Message(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Message(w, http.StatusInternalServerError, message)
}
