package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

type memoryBookingStore struct {
	bookings map[string]models.Booking
}

func (s *memoryBookingStore) Create(_ context.Context, booking *models.Booking) error {
	s.bookings[booking.ID] = *booking
	return nil
}

func (s *memoryBookingStore) FindByID(_ context.Context, id string) (*models.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, errors.NewNotFoundError("Booking")
	}
	return &booking, nil
}

func (s *memoryBookingStore) ListByCustomer(_ context.Context, customerID string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memoryBookingStore) ListByWorker(_ context.Context, workerID string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range s.bookings {
		if b.WorkerID == workerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *memoryBookingStore) UpdateStatus(_ context.Context, id string, status models.BookingStatus) error {
	booking, ok := s.bookings[id]
	if !ok {
		return errors.NewNotFoundError("Booking")
	}
	booking.Status = status
	s.bookings[id] = booking
	return nil
}

type stubListingStore struct {
	listings map[string]*models.Listing
}

func (s *stubListingStore) Get(_ context.Context, id string) (*models.Listing, error) {
	listing, ok := s.listings[id]
	if !ok {
		return nil, errors.NewNotFoundError("Listing")
	}
	return listing, nil
}

type stubUserStore struct{}

func (stubUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, Name: "Anita", Email: id + "@example.com"}, nil
}

type recordingNotifier struct {
	created       int
	statusChanged int
	lastBooking   *models.Booking
}

func (n *recordingNotifier) BookingCreated(_ context.Context, booking *models.Booking, _ *models.Listing, _ *models.User) {
	n.created++
	n.lastBooking = booking
}

func (n *recordingNotifier) BookingStatusChanged(_ context.Context, booking *models.Booking, _ *models.Listing, _ *models.User) {
	n.statusChanged++
	n.lastBooking = booking
}

func newTestHandler(t *testing.T) (*Handler, *memoryBookingStore, *recordingNotifier) {
	bookings := &memoryBookingStore{bookings: map[string]models.Booking{}}
	listings := &stubListingStore{listings: map[string]*models.Listing{
		"l-1": {
			ID: "l-1", Title: "AC Repair", Price: 450, Available: true,
			Owner: models.OwnerProfile{ID: "w-1", Name: "Ravi", Email: "ravi@example.com"},
		},
		"l-off": {
			ID: "l-off", Title: "Paused", Price: 100, Available: false,
			Owner: models.OwnerProfile{ID: "w-1"},
		},
	}}
	notifier := &recordingNotifier{}
	h := NewHandler(bookings, listings, stubUserStore{}, notifier, logger.NewTestLogger(t))
	return h, bookings, notifier
}

func withUser(req *http.Request, userID string, role models.Role) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), auth.User{ID: userID, Role: role}))
}

func createBooking(t *testing.T, h *Handler) models.Booking {
	t.Helper()
	body := `{"listingId": "l-1", "scheduledDate": "2026-03-14T10:00:00Z", "address": "12 Main St"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)), "c-1", models.RoleCustomer)
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var output ItemOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	return *output.Booking
}

func TestCreateSnapshotsPriceAndNotifies(t *testing.T) {
	h, bookings, notifier := newTestHandler(t)

	booking := createBooking(t, h)

	assert.Equal(t, 450.0, booking.Price)
	assert.Equal(t, "w-1", booking.WorkerID)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Contains(t, bookings.bookings, booking.ID)
	assert.Equal(t, 1, notifier.created)
}

func TestCreateUnavailableListing(t *testing.T) {
	h, _, notifier := newTestHandler(t)

	body := `{"listingId": "l-off", "scheduledDate": "2026-03-14T10:00:00Z"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)), "c-1", models.RoleCustomer)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, notifier.created)
}

func TestCreateOwnListingRejected(t *testing.T) {
	h, _, _ := newTestHandler(t)

	body := `{"listingId": "l-1", "scheduledDate": "2026-03-14T10:00:00Z"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)), "w-1", models.RoleCustomer)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMissingFields(t *testing.T) {
	h, _, _ := newTestHandler(t)

	for name, body := range map[string]string{
		"no listing": `{"scheduledDate": "2026-03-14T10:00:00Z"}`,
		"no date":    `{"listingId": "l-1"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body)), "c-1", models.RoleCustomer)
			rec := httptest.NewRecorder()
			h.Create(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListForCustomerAndWorker(t *testing.T) {
	h, _, _ := newTestHandler(t)
	createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/bookings/customer", nil), "c-1", models.RoleCustomer)
	rec := httptest.NewRecorder()
	h.ListForCustomer(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var output ListOutput
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Len(t, output.Bookings, 1)

	req = withUser(httptest.NewRequest(http.MethodGet, "/api/bookings/worker", nil), "w-1", models.RoleWorker)
	rec = httptest.NewRecorder()
	h.ListForWorker(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Len(t, output.Bookings, 1)
}

func TestUpdateStatusByWorker(t *testing.T) {
	h, bookings, notifier := newTestHandler(t)
	booking := createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/status", strings.NewReader(`{"status": "accepted"}`)), "w-1", models.RoleWorker)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.BookingAccepted, bookings.bookings[booking.ID].Status)
	assert.Equal(t, 1, notifier.statusChanged)
}

func TestUpdateStatusByWrongWorker(t *testing.T) {
	h, _, _ := newTestHandler(t)
	booking := createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/status", strings.NewReader(`{"status": "accepted"}`)), "w-2", models.RoleWorker)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateStatusRejectsPending(t *testing.T) {
	h, _, _ := newTestHandler(t)
	booking := createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/status", strings.NewReader(`{"status": "pending"}`)), "w-1", models.RoleWorker)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelByCustomer(t *testing.T) {
	h, bookings, _ := newTestHandler(t)
	booking := createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/cancel", nil), "c-1", models.RoleCustomer)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.BookingCancelled, bookings.bookings[booking.ID].Status)
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	h, bookings, _ := newTestHandler(t)
	booking := createBooking(t, h)

	done := bookings.bookings[booking.ID]
	done.Status = models.BookingCompleted
	done.UpdatedAt = time.Now().UTC()
	bookings.bookings[booking.ID] = done

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/cancel", nil), "c-1", models.RoleCustomer)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelByOtherCustomerForbidden(t *testing.T) {
	h, _, _ := newTestHandler(t)
	booking := createBooking(t, h)

	req := withUser(httptest.NewRequest(http.MethodPut, "/api/bookings/"+booking.ID+"/cancel", nil), "c-2", models.RoleCustomer)
	req.SetPathValue("id", booking.ID)
	rec := httptest.NewRecorder()
	h.Cancel(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
