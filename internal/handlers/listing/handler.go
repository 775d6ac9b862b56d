// Package listing implements the service-listing CRUD routes.
package listing

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/response"
	"skillconnect/internal/models"
)

// Store is the listing document store surface.
type Store interface {
	Index(ctx context.Context, listing *models.Listing) error
	Get(ctx context.Context, id string) (*models.Listing, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
}

// UserStore resolves owners for the embedded profile snapshot.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type Handler struct {
	store  Store
	users  UserStore
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(store Store, users UserStore, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		users:  users,
		errors: errors.NewErrorHandler(log),
		logger: log.WithFields(map[string]interface{}{"handler": "listing"}),
	}
}

// List handles GET /api/listings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.ListingFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		MinPrice: parsePrice(query.Get("minPrice")),
		MaxPrice: parsePrice(query.Get("maxPrice")),
		Sort:     query.Get("sort"),
	}

	listings, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, ListOutput{OK: true, Listings: listings})
}

// Get handles GET /api/listings/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, ItemOutput{OK: true, Listing: listing})
}

// Create handles POST /api/listings. Worker role is enforced by the router.
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
	if err := validateCreate(&input); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	owner, err := h.users.FindByID(r.Context(), principal.ID)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	now := time.Now().UTC()
	listing := &models.Listing{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Location:    input.Location,
		Owner: models.OwnerProfile{
			ID:         owner.ID,
			Name:       owner.Name,
			Email:      owner.Email,
			Phone:      owner.Phone,
			Bio:        owner.Bio,
			Experience: owner.Experience,
		},
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.store.Index(r.Context(), listing); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	h.logger.Info("listing created", map[string]interface{}{
		"listingId": listing.ID,
		"ownerId":   owner.ID,
	})

	response.Created(w, ItemOutput{OK: true, Listing: listing})
}

// Update handles PUT /api/listings/{id}. Only the owner may update.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	listing, _, err := h.ownedListing(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			h.errors.WriteError(w, r, errors.NewValidationError("title cannot be empty"))
			return
		}
		listing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			h.errors.WriteError(w, r, errors.NewValidationError("unknown category"))
			return
		}
		listing.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			h.errors.WriteError(w, r, errors.NewValidationError("price must be positive"))
			return
		}
		listing.Price = *input.Price
	}
	if input.Location != nil {
		listing.Location = *input.Location
	}
	if input.Available != nil {
		listing.Available = *input.Available
	}
	listing.UpdatedAt = time.Now().UTC()

	if err := h.store.Index(r.Context(), listing); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, ItemOutput{OK: true, Listing: listing})
}

// Remove handles DELETE /api/listings/{id}. Only the owner may delete.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	listing, _, err := h.ownedListing(r)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	if err := h.store.Delete(r.Context(), listing.ID); err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, MessageOutput{OK: true, Message: "Listing deleted"})
}

func (h *Handler) ownedListing(r *http.Request) (*models.Listing, auth.User, error) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, auth.User{}, errors.NewAuthenticationError("Missing session token")
	}

	listing, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, principal, err
	}
	if listing.Owner.ID != principal.ID {
		return nil, principal, errors.NewForbiddenError("Not the listing owner")
	}
	return listing, principal, nil
}

func validateCreate(input *CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.NewValidationError("title is required")
	}
	if !models.ValidCategory(input.Category) {
		return errors.NewValidationError("unknown category")
	}
	if input.Price <= 0 {
		return errors.NewValidationError("price must be positive")
	}
	return nil
}

func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}
