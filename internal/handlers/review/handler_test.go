package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

type memoryReviewStore struct {
	reviews map[string]models.Review
}

func (s *memoryReviewStore) Create(_ context.Context, review *models.Review) error {
	s.reviews[review.ID] = *review
	return nil
}

func (s *memoryReviewStore) FindByID(_ context.Context, id string) (*models.Review, error) {
	review, ok := s.reviews[id]
	if !ok {
		return nil, errors.NewNotFoundError("Review")
	}
	return &review, nil
}

func (s *memoryReviewStore) ListByListing(_ context.Context, listingID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range s.reviews {
		if r.ListingID == listingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memoryReviewStore) Delete(_ context.Context, id string) error {
	delete(s.reviews, id)
	return nil
}

func (s *memoryReviewStore) Summary(_ context.Context, listingID string) (models.RatingSummary, error) {
	var sum, count int
	for _, r := range s.reviews {
		if r.ListingID == listingID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{Average: float64(sum) / float64(count), Count: count}, nil
}

type stubBookingStore struct {
	completed bool
}

func (s *stubBookingStore) HasCompleted(_ context.Context, _, _ string) (bool, error) {
	return s.completed, nil
}

type stubListingStore struct {
	known   map[string]bool
	summary models.RatingSummary
	updated string
}

func (s *stubListingStore) Get(_ context.Context, id string) (*models.Listing, error) {
	if !s.known[id] {
		return nil, errors.NewNotFoundError("Listing")
	}
	return &models.Listing{ID: id}, nil
}

func (s *stubListingStore) UpdateRating(_ context.Context, id string, summary models.RatingSummary) error {
	s.updated = id
	s.summary = summary
	return nil
}

type stubUserStore struct{}

func (stubUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Name: "Anita"}, nil
}

func newTestHandler(t *testing.T, completed bool) (*Handler, *memoryReviewStore, *stubListingStore) {
	reviews := &memoryReviewStore{reviews: map[string]models.Review{}}
	listings := &stubListingStore{known: map[string]bool{"l-1": true}}
	h := NewHandler(reviews, &stubBookingStore{completed: completed}, listings, stubUserStore{}, logger.NewTestLogger(t))
	return h, reviews, listings
}

func asCustomer(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), auth.User{ID: userID, Role: models.RoleCustomer}))
}

func postReview(t *testing.T, h *Handler, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body)), userID)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateAfterCompletedBooking(t *testing.T) {
	h, reviews, listings := newTestHandler(t, true)

	rec := postReview(t, h, "c-1", `{"listingId": "l-1", "rating": 4, "comment": "Great work"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var output ItemOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Equal(t, "Anita", output.Review.UserName)
	assert.Len(t, reviews.reviews, 1)

	// Aggregate pushed to the listing document.
	assert.Equal(t, "l-1", listings.updated)
	assert.Equal(t, models.RatingSummary{Average: 4, Count: 1}, listings.summary)
}

func TestCreateWithoutCompletedBookingForbidden(t *testing.T) {
	h, reviews, _ := newTestHandler(t, false)

	rec := postReview(t, h, "c-1", `{"listingId": "l-1", "rating": 4}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, reviews.reviews)
}

func TestCreateUnknownListing(t *testing.T) {
	h, _, _ := newTestHandler(t, true)

	rec := postReview(t, h, "c-1", `{"listingId": "ghost", "rating": 4}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRatingBounds(t *testing.T) {
	h, _, _ := newTestHandler(t, true)

	for _, body := range []string{
		`{"listingId": "l-1", "rating": 0}`,
		`{"listingId": "l-1", "rating": 6}`,
	} {
		rec := postReview(t, h, "c-1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestRemoveByAuthorRecomputes(t *testing.T) {
	h, reviews, listings := newTestHandler(t, true)
	rec := postReview(t, h, "c-1", `{"listingId": "l-1", "rating": 4}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = postReview(t, h, "c-1", `{"listingId": "l-1", "rating": 2}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var reviewID string
	for id, r := range reviews.reviews {
		if r.Rating == 2 {
			reviewID = id
		}
	}

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/reviews/"+reviewID, nil), "c-1")
	req.SetPathValue("id", reviewID)
	del := httptest.NewRecorder()
	h.Remove(del, req)

	require.Equal(t, http.StatusOK, del.Code)
	assert.Len(t, reviews.reviews, 1)
	assert.Equal(t, models.RatingSummary{Average: 4, Count: 1}, listings.summary)
}

func TestRemoveByOtherUserForbidden(t *testing.T) {
	h, reviews, _ := newTestHandler(t, true)
	rec := postReview(t, h, "c-1", `{"listingId": "l-1", "rating": 4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var reviewID string
	for id := range reviews.reviews {
		reviewID = id
	}

	req := asCustomer(httptest.NewRequest(http.MethodDelete, "/api/reviews/"+reviewID, nil), "c-2")
	req.SetPathValue("id", reviewID)
	del := httptest.NewRecorder()
	h.Remove(del, req)

	assert.Equal(t, http.StatusForbidden, del.Code)
	assert.Len(t, reviews.reviews, 1)
}
