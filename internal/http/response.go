package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/preferences"
	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/hoanghieund/sale-project-sub002/internal/service"
	"github.com/hoanghieund/sale-project-sub002/pkg/logger"
	"go.uber.org/zap"
)

const maxRequestBodySize = 1 << 20 // 1MB

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleError maps domain errors to HTTP status codes. Anything unrecognised
// is logged and reported as a 500 without details.
func handleError(w http.ResponseWriter, r *http.Request, fallback *zap.Logger, err error) {
	var perr *domain.ParseError
	switch {
	case errors.As(err, &perr):
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request", perr.Error())
	case errors.Is(err, service.ErrMissingUser):
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication", "")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error(), "")
	case errors.Is(err, preferences.ErrUnknownKey), errors.Is(err, preferences.ErrInvalidValue):
		respondError(w, http.StatusBadRequest, "invalid_preference", "invalid preference", err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found", "")
	case errors.Is(err, repository.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "item not in cart", "")
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", "cart not found", "")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out", "")
	default:
		logger.FromContext(r.Context(), fallback).Error("request failed",
			zap.String("path", r.URL.Path), zap.Error(err))
		details := ""
		if id := getRequestID(r.Context()); id != "" {
			details = "request_id=" + id
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error", details)
	}
}

// decodeJSON reads a single JSON document into dst. Unknown fields, trailing
// data and empty bodies are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return &domain.ParseError{Source: "body", Err: err}
	}
	if dec.More() {
		return &domain.ParseError{Source: "body", Err: errors.New("unexpected data after JSON document")}
	}
	return nil
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "product_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &domain.ParseError{Source: "path", Field: "product_id", Err: err}
	}
	if id <= 0 {
		return 0, &domain.ParseError{Source: "path", Field: "product_id", Err: fmt.Errorf("must be positive, got %d", id)}
	}
	return id, nil
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &domain.ParseError{Source: "query", Field: name, Err: err}
	}
	return v, nil
}
