// Package response writes JSON responses and maps service errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/kitchenpos/internal/service/errs"
	"github.com/shopspring/decimal"
)

// errorBody is the payload of every failed request.
type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}

// Created writes v with 201 and a Location header.
func Created(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	JSON(w, http.StatusCreated, v)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err to a status code and writes it. msg names the failed operation in the log.
// NotFound, Validation and Conflict all become 400; anything else is 500 with a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errs.IsDomain(err) {
		slog.Warn(msg, "error", err, "path", r.URL.Path)
		JSON(w, StatusFor(err), errorBody{Error: err.Error()})

		return
	}

	slog.Error(msg, "error", err, "path", r.URL.Path)
	JSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Price renders a decimal as a JSON number rather than a quoted string.
func Price(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
