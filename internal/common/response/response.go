// Package response writes JSON API responses.
package response

import (
	"encoding/json"
	"net/http"
)

// WriteJSON serializes payload with the given status code.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, payload interface{}) {
	WriteJSON(w, http.StatusOK, payload)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, payload interface{}) {
	WriteJSON(w, http.StatusCreated, payload)
}
