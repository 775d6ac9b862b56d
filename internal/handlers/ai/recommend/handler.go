package recommend

import (
	"encoding/json"
	"net/http"
	"strings"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/response"
)

type Handler struct {
	service *Service
	errors  *errors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		errors:  errors.NewErrorHandler(log),
		logger:  log,
	}
}

// ServeHTTP handles POST /api/ai/recommend.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.WriteError(w, r, errors.NewValidationError("Invalid request body"))
		return
	}

	if strings.TrimSpace(input.Service) == "" {
		h.errors.WriteError(w, r, errors.NewValidationError("service is required"))
		return
	}

	budget := ParseNumber(input.Budget)
	topK := ParseTopK(input.TopK)

	output, err := h.service.Execute(r.Context(), input.Service, budget, topK)
	if err != nil {
		h.errors.WriteError(w, r, err)
		return
	}

	response.OK(w, output)
}
