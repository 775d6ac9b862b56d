// Package booking implements booking routes: creation by customers,
// status updates by workers, cancellation by customers.
package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/response"
	"skillconnect/internal/models"
)

type CreateInput struct {
	ListingID     string    `json:"listingId"`
	ScheduledDate time.Time `json:"scheduledDate"`
	Address       string    `json:"address"`
}

type StatusInput struct {
	Status models.BookingStatus `json:"status"`
}

type ListOutput struct {
	OK       bool             `json:"ok"`
	Bookings []models.Booking `json:"bookings"`
}

type ItemOutput struct {
	OK      bool            `json:"ok"`
	Booking *models.Booking `json:"booking"`
}

type Store interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
}

type ListingStore interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Notifier delivers booking lifecycle notifications. Failures stay inside
// the notifier; these calls never error.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *models.Booking, listing *models.Listing, customer *models.User)
	BookingStatusChanged(ctx context.Context, booking *models.Booking, listing *models.Listing, customer *models.User)
}

type Handler struct {
	bookings Store
	listings ListingStore
	users    UserStore
	notifier Notifier
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(bookings Store, listings ListingStore, users UserStore, notifier Notifier, log logger.Logger) *Handler {
	return &Handler{
		bookings: bookings,
		listings: listings,
		users:    users,
		notifier: notifier,
		errors:   errors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"handler": "booking"}),
	}
}

// Create handles POST /api/bookings. Customer role is enforced by the
// router. The booking snapshots the listing price at creation time.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}
	if input.ListingID == "" {
		h.errors.WriteError(w, r, errors.NewValidationError("listingId is required"))
		return
	}
	if input.ScheduledDate.IsZero() {
		h.errors.WriteError(w, r, errors.NewValidationError("scheduledDate is required"))
		return
	}

	listing, err := h.listings.Get(r.Context(), input.ListingID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if !listing.Available {
		h.errors.WriteError(w, r, errors.NewValidationError("Listing is not available for booking"))
		return
	}
	if listing.Owner.ID == principal.ID {
		h.errors.WriteError(w, r, errors.NewValidationError("Cannot book your own listing"))
		return
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:            uuid.NewString(),
		CustomerID:    principal.ID,
		WorkerID:      listing.Owner.ID,
		ListingID:     listing.ID,
		ScheduledDate: input.ScheduledDate,
		Address:       input.Address,
		Price:         listing.Price,
		Status:        models.BookingPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.bookings.Create(r.Context(), booking); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.logger.Info("booking created", map[string]interface{}{
		"bookingId": booking.ID,
		"listingId": listing.ID,
		"workerId":  booking.WorkerID,
	})

	if customer, err := h.users.FindByID(r.Context(), principal.ID); err == nil {
		h.notifier.BookingCreated(r.Context(), booking, listing, customer)
	}

	response.Created(w, ItemOutput{OK: true, Booking: booking})
}

// ListForCustomer handles GET /api/bookings/customer.
func (h *Handler) ListForCustomer(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.bookings.ListByCustomer)
}

// ListForWorker handles GET /api/bookings/worker.
func (h *Handler) ListForWorker(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.bookings.ListByWorker)
}

func (h *Handler) listFor(w http.ResponseWriter, r *http.Request, list func(context.Context, string) ([]models.Booking, error)) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	bookings, err := list(r.Context(), principal.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, ListOutput{OK: true, Bookings: bookings})
}

// UpdateStatus handles PUT /api/bookings/{id}/status. Only the booked
// worker may move the booking.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	var input StatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}
	if !input.Status.Valid() || input.Status == models.BookingPending {
		h.errors.WriteError(w, r, errors.NewValidationError("status must be accepted, completed or cancelled"))
		return
	}

	booking, err := h.bookings.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if booking.WorkerID != principal.ID {
		h.errors.WriteError(w, r, errors.NewForbiddenError("Not the booked worker"))
		return
	}

	h.applyStatus(w, r, booking, input.Status)
}

// Cancel handles PUT /api/bookings/{id}/cancel. Only the booking customer
// may cancel, and only before completion.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	booking, err := h.bookings.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if booking.CustomerID != principal.ID {
		h.errors.WriteError(w, r, errors.NewForbiddenError("Not the booking customer"))
		return
	}
	if booking.Status == models.BookingCompleted || booking.Status == models.BookingCancelled {
		h.errors.WriteError(w, r, errors.NewValidationError("Booking can no longer be cancelled"))
		return
	}

	h.applyStatus(w, r, booking, models.BookingCancelled)
}

func (h *Handler) applyStatus(w http.ResponseWriter, r *http.Request, booking *models.Booking, status models.BookingStatus) {
	if err := h.bookings.UpdateStatus(r.Context(), booking.ID, status); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()

	listing, listErr := h.listings.Get(r.Context(), booking.ListingID)
	customer, userErr := h.users.FindByID(r.Context(), booking.CustomerID)
	if listErr == nil && userErr == nil {
		h.notifier.BookingStatusChanged(r.Context(), booking, listing, customer)
	}

	response.OK(w, ItemOutput{OK: true, Booking: booking})
}
