// Package review implements review routes. Writing a review requires a
// completed booking, and every write recomputes the listing's rating
// aggregate in the document store.
package review

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
	ListingID string `json:"listingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type ListOutput struct {
	OK      bool            `json:"ok"`
	Reviews []models.Review `json:"reviews"`
}

type ItemOutput struct {
	OK     bool           `json:"ok"`
	Review *models.Review `json:"review"`
}

type MessageOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type Store interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	ListByListing(ctx context.Context, listingID string) ([]models.Review, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, listingID string) (models.RatingSummary, error)
}

type BookingStore interface {
	HasCompleted(ctx context.Context, listingID, customerID string) (bool, error)
}

type ListingStore interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
	UpdateRating(ctx context.Context, id string, summary models.RatingSummary) error
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	reviews  Store
	bookings BookingStore
	listings ListingStore
	users    UserStore
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(reviews Store, bookings BookingStore, listings ListingStore, users UserStore, log logger.Logger) *Handler {
	return &Handler{
		reviews:  reviews,
		bookings: bookings,
		listings: listings,
		users:    users,
		errors:   errors.NewErrorHandler(log),
		logger:   log.WithFields(map[string]interface{}{"handler": "review"}),
	}
}

// Create handles POST /api/reviews.
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
	if input.Rating < 1 || input.Rating > 5 {
		h.errors.WriteError(w, r, errors.NewValidationError("rating must be between 1 and 5"))
		return
	}

	if _, err := h.listings.Get(r.Context(), input.ListingID); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	completed, err := h.bookings.HasCompleted(r.Context(), input.ListingID, principal.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if !completed {
		h.errors.WriteError(w, r, errors.NewForbiddenError("Reviews require a completed booking"))
		return
	}

	userName := ""
	if user, err := h.users.FindByID(r.Context(), principal.ID); err == nil {
		userName = user.Name
	}

	review := &models.Review{
		ID:        uuid.NewString(),
		ListingID: input.ListingID,
		UserID:    principal.ID,
		UserName:  userName,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.reviews.Create(r.Context(), review); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.recomputeRating(r.Context(), input.ListingID)

	response.Created(w, ItemOutput{OK: true, Review: review})
}

// ListByListing handles GET /api/listings/{id}/reviews.
func (h *Handler) ListByListing(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByListing(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, ListOutput{OK: true, Reviews: reviews})
}

// Remove handles DELETE /api/reviews/{id}. Only the author may delete.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		h.errors.WriteError(w, r, errors.NewAuthenticationError("Missing session token"))
		return
	}

	review, err := h.reviews.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}
	if review.UserID != principal.ID {
		h.errors.WriteError(w, r, errors.NewForbiddenError("Not the review author"))
		return
	}

	if err := h.reviews.Delete(r.Context(), review.ID); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.recomputeRating(r.Context(), review.ListingID)

	response.OK(w, MessageOutput{OK: true, Message: "Review deleted"})
}

// recomputeRating pushes the fresh aggregate onto the listing document.
// A failure here leaves the review write intact; the aggregate catches up
// on the next write.
func (h *Handler) recomputeRating(ctx context.Context, listingID string) {
	summary, err := h.reviews.Summary(ctx, listingID)
	if err == nil {
		err = h.listings.UpdateRating(ctx, listingID, summary)
	}
	if err != nil {
		h.logger.Warn("rating recompute failed", map[string]interface{}{
			"listingId": listingID,
			"error":     err.Error(),
		})
	}
}
