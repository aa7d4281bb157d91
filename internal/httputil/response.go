package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform success response body:
// {"statusCode": n, "data": ..., "message": "...", "success": true}
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope is the analogous error body. Data is omitted; the message is
// always human-readable and never carries internal details.
type ErrorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			// Headers already sent, nothing to recover here
			return
		}
	}
}

// WriteSuccess writes the standard envelope with the given status code.
func WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// WriteOK writes a 200 success envelope.
func WriteOK(w http.ResponseWriter, data interface{}, message string) {
	WriteSuccess(w, http.StatusOK, data, message)
}

// WriteCreated writes a 201 success envelope.
func WriteCreated(w http.ResponseWriter, data interface{}, message string) {
	WriteSuccess(w, http.StatusCreated, data, message)
}

// WriteError writes an error envelope with the given status and message.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteForbidden writes a 403 Forbidden error
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteConflict writes a 409 Conflict error
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

// WriteInternalError writes a 500 Internal Server Error with a generic message.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
