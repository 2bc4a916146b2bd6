package httputil

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope returned on success.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError is the envelope returned on failure. Internal error detail never
// goes into Message; callers pass a stable, client-safe string.
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RespondJSON writes an arbitrary payload with the given status code.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondSuccess writes a success envelope.
func RespondSuccess(w http.ResponseWriter, status int, data any, message string) {
	RespondJSON(w, status, APIResponse{Success: true, Data: data, Message: message})
}

// RespondError writes a failure envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, APIError{Success: false, Message: message})
}

// DecodeJSON decodes a request body into dst, rejecting unknown fields is
// deliberately not done here: clients send extra fields freely.
func DecodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
