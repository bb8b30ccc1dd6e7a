package httpapi

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the standard JSON error body this package returns.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func okJSON(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func errorWithCode(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, ErrorResponse{Code: code, Message: message})
}

func notFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "not found"
	}
	errorWithCode(w, http.StatusNotFound, message)
}

func badRequest(w http.ResponseWriter, message string) {
	errorWithCode(w, http.StatusBadRequest, message)
}
