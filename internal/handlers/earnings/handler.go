// Package earnings implements the worker earnings summary route.
package earnings

import (
	"context"
	"net/http"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/response"
	"skillconnect/internal/store"
)

type Output struct {
	OK       bool                   `json:"ok"`
	Earnings *store.EarningsSummary `json:"earnings"`
}

type Store interface {
	Earnings(ctx context.Context, workerID string) (*store.EarningsSummary, error)
}

type Handler struct {
	bookings Store
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(bookings Store, log logger.Logger) *Handler {
	return &Handler{
		bookings: bookings,
		errors:   errors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"handler": "earnings"}),
	}
}

// Get handles GET /api/earnings. Worker role is enforced by the router.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	summary, err := h.bookings.Earnings(r.Context(), principal.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, Output{OK: true, Earnings: summary})
}
