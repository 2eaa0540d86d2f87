// internal/web/web.go
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"clubnexus/internal/club"

	"github.com/go-chi/chi/v5"
)

// StatusOf maps an error onto an HTTP status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, club.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, club.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, club.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, club.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, club.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, club.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg} with the status matching err.
func Error(w http.ResponseWriter, err error) {
	JSON(w, StatusOf(err), map[string]string{"error": err.Error()})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %v: %w", err, club.ErrInvalidInput)
	}
	return nil
}

// IDParam parses a numeric URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, club.ErrInvalidInput)
	}
	return id, nil
}
