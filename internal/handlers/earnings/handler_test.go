package earnings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
	"skillconnect/internal/store"
)

type stubEarningsStore struct {
	workerID string
	summary  *store.EarningsSummary
}

func (s *stubEarningsStore) Earnings(_ context.Context, workerID string) (*store.EarningsSummary, error) {
	s.workerID = workerID
	return s.summary, nil
}

func TestGetEarnings(t *testing.T) {
	stub := &stubEarningsStore{summary: &store.EarningsSummary{
		TotalEarnings: 1500,
		StatusCounts: map[models.BookingStatus]int{
			models.BookingCompleted: 3,
			models.BookingPending:   1,
		},
	}}
	h := NewHandler(stub, logger.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/earnings", nil)
	req = req.WithContext(auth.WithUser(req.Context(), auth.User{ID: "w-1", Role: models.RoleWorker}))
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "w-1", stub.workerID)

	var output Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.Equal(t, 1500.0, output.Earnings.TotalEarnings)
	assert.Equal(t, 3, output.Earnings.StatusCounts[models.BookingCompleted])
}

func TestGetEarningsUnauthenticated(t *testing.T) {
	h := NewHandler(&stubEarningsStore{}, logger.NewTestLogger(t))

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/earnings", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
