package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"credicaja-backend/internal/domain"
	"credicaja-backend/internal/logger"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Paginated wraps list results with their paging metadata.
type Paginated struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func respondCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
// Unrecognized errors become an opaque 500; the detail stays in the log.
func respondError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	var conflict *domain.StateConflictError
	var notFound *domain.NotFoundError

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, Response{Message: validation.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, Response{Message: conflict.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, Response{Message: notFound.Error()})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Response{Message: err.Error()})
	default:
		logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{Message: "internal server error"})
	}
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, Response{Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid request body"})
		return false
	}
	return true
}
