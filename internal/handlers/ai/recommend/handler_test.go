package recommend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

func newTestHandler(t *testing.T, store *stubStore, completer *stubCompleter) *Handler {
	log := logger.NewTestLogger(t)
	return NewHandler(NewService(store, completer, nil, log), log)
}

func postRecommend(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/recommend", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerMissingService(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubCompleter{})

	rec := postRecommend(t, h, `{"budget": 500}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
}

func TestHandlerBlankService(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubCompleter{})

	rec := postRecommend(t, h, `{"service": "   "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerInvalidBody(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubCompleter{})

	rec := postRecommend(t, h, `not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerNoCandidates(t *testing.T) {
	h := newTestHandler(t, &stubStore{}, &stubCompleter{})

	rec := postRecommend(t, h, `{"service": "Plumber", "budget": 500}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var output Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	assert.True(t, output.OK)
	assert.Empty(t, output.Results)
	assert.Equal(t, NoCandidatesMessage, output.Message)
}

func TestHandlerSuccess(t *testing.T) {
	store := &stubStore{listings: []models.Listing{{
		ID: "l-1", Title: "Plumber", Price: 500, Rating: 4,
		Owner: models.OwnerProfile{Name: "Ravi", Experience: "3 years"},
	}}}
	completer := &stubCompleter{response: `[{"rank": 1, "reason": "Good fit", "confidence": "high"}]`}
	h := newTestHandler(t, store, completer)

	rec := postRecommend(t, h, `{"service": "Plumber", "budget": "500", "topK": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var output Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &output))
	require.Len(t, output.Results, 1)
	assert.Equal(t, 69.0, output.Results[0].Score)
	assert.Equal(t, "Good fit", output.Results[0].Explanation.Reason)
}

func TestHandlerTransportFailureIs500(t *testing.T) {
	store := &stubStore{listings: []models.Listing{{ID: "l-1", Title: "Plumber", Price: 500}}}
	completer := &stubCompleter{err: errTransport{}}
	h := newTestHandler(t, store, completer)

	rec := postRecommend(t, h, `{"service": "Plumber", "budget": 500}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Server error", body["message"])
}

type errTransport struct{}

func (errTransport) Error() string { return "connection refused" }
