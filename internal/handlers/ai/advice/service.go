package advice

import (
	"context"

	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/metrics"
	"skillconnect/internal/models"
)

const adviceTemperature = 0.3

// ListingStore resolves the listing whose owner is asking for advice.
type ListingStore interface {
	Get(ctx context.Context, id string) (*models.Listing, error)
}

// Completer is the one-shot reasoning call.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

type Service struct {
	store     ListingStore
	completer Completer
	logger    logger.Logger
}

func NewService(store ListingStore, completer Completer, log logger.Logger) *Service {
	return &Service{
		store:     store,
		completer: completer,
		logger:    log.WithFields(map[string]interface{}{"flow": "advice"}),
	}
}

// Execute builds the profile-improvement prompt for one listing and
// returns the parsed tips. A transport failure is a hard error; garbled
// output degrades to a fallback tip list.
func (s *Service) Execute(ctx context.Context, listingID string) (*Output, error) {
	listing, err := s.store.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, BuildPrompt(listing), adviceTemperature)
	if err != nil {
		metrics.AICallsTotal.WithLabelValues("advice", "error").Inc()
		return nil, err
	}
	metrics.AICallsTotal.WithLabelValues("advice", "success").Inc()

	tips, err := ParseTips(raw)
	if err != nil {
		metrics.AIFallbacksTotal.WithLabelValues("advice").Inc()
		s.logger.Warn("unparseable model output, using fallback tips", map[string]interface{}{
			"listingId": listingID,
			"error":     err.Error(),
		})
		tips = FallbackFor(err)
	}

	return &Output{OK: true, Advice: tips}, nil
}
