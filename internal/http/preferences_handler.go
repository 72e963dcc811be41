package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/domain"
	"github.com/hoanghieund/sale-project-sub002/internal/preferences"
	"github.com/hoanghieund/sale-project-sub002/internal/service"
	"go.uber.org/zap"
)

type PreferencesHandler struct {
	store   preferences.Store
	timeout time.Duration
	log     *zap.Logger
}

func NewPreferencesHandler(store preferences.Store, timeout time.Duration, log *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{
		store:   store,
		timeout: timeout,
		log:     log,
	}
}

func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		handleError(w, r, h.log, service.ErrMissingUser)
		return
	}

	prefs, err := h.store.Load(ctx, userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// Update applies a partial update such as {"theme":"dark","cookie_consent":true}.
// Either every key is applied or none is. Keys absent from the body are
// left as stored.
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		handleError(w, r, h.log, service.ErrMissingUser)
		return
	}

	var body map[string]interface{}
	if err := decodeJSON(w, r, &body); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	values := make(map[string]string, len(body))
	for key, raw := range body {
		switch v := raw.(type) {
		case string:
			values[key] = v
		case bool:
			values[key] = strconv.FormatBool(v)
		default:
			handleError(w, r, h.log, &domain.ParseError{
				Source: "body", Field: key, Err: fmt.Errorf("expected string or boolean, got %T", raw),
			})
			return
		}
	}

	prefs, err := h.store.Update(ctx, userID, values)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}
