package recommend

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/metrics"
	"skillconnect/internal/common/observability"
	"skillconnect/internal/models"
)

// NoCandidatesMessage is returned when the store matches nothing. The model
// is never called for an empty candidate set.
const NoCandidatesMessage = "No workers found for this service"

const recommendTemperature = 0.2

// CandidateStore retrieves listings by case-insensitive title substring.
type CandidateStore interface {
	SearchByTitle(ctx context.Context, title string) ([]models.Listing, error)
}

// Completer is the one-shot reasoning call.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

type Service struct {
	store     CandidateStore
	completer Completer
	tracing   *observability.Tracing
	logger    logger.Logger
}

func NewService(store CandidateStore, completer Completer, tracing *observability.Tracing, log logger.Logger) *Service {
	return &Service{
		store:     store,
		completer: completer,
		tracing:   tracing,
		logger:    log.WithFields(map[string]interface{}{"flow": "recommend"}),
	}
}

// Execute runs the full recommendation pipeline: retrieve, score, rank,
// explain, assemble. A transport failure of the reasoning call is a hard
// error; unparseable output degrades to the fallback explanation.
func (s *Service) Execute(ctx context.Context, service string, budget float64, topK int) (*Output, error) {
	ctx, span := s.tracing.StartSpan(ctx, "recommend.execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("recommend.service", service),
		attribute.Int("recommend.top_k", topK),
	)

	listings, err := s.store.SearchByTitle(ctx, service)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("recommend.candidates", len(listings)))

	if len(listings) == 0 {
		s.logger.Info("no candidates matched", map[string]interface{}{"service": service})
		return &Output{OK: true, Results: []Recommendation{}, Message: NoCandidatesMessage}, nil
	}

	scored := make([]ScoredCandidate, 0, len(listings))
	for _, listing := range listings {
		candidate := CandidateFromListing(listing)
		scored = append(scored, ScoredCandidate{
			ServiceCandidate: candidate,
			Score:            Score(candidate, budget),
		})
	}

	ranked := Rank(scored, topK)

	completeCtx, completeSpan := s.tracing.StartSpan(ctx, "recommend.complete")
	raw, err := s.completer.Complete(completeCtx, BuildPrompt(ranked), recommendTemperature)
	completeSpan.End()
	if err != nil {
		metrics.AICallsTotal.WithLabelValues("recommend", "error").Inc()
		return nil, err
	}
	metrics.AICallsTotal.WithLabelValues("recommend", "success").Inc()

	explanations, err := ParseExplanations(raw)
	if err != nil {
		metrics.AIFallbacksTotal.WithLabelValues("recommend").Inc()
		s.logger.Warn("unparseable model output, using fallback explanation", map[string]interface{}{
			"service": service,
			"error":   err.Error(),
		})
		explanations = FallbackExplanations()
	}

	if len(explanations) != len(ranked) {
		metrics.ExplanationCountMismatch.Inc()
		s.logger.Warn("explanation count differs from ranked count", map[string]interface{}{
			"ranked":       len(ranked),
			"explanations": len(explanations),
		})
	}

	return &Output{OK: true, Results: Assemble(ranked, explanations)}, nil
}

// Assemble pairs ranked candidates with explanations by array index.
// Output length always equals the ranked length: surplus explanations are
// dropped, missing ones leave the slot with an empty explanation.
func Assemble(ranked []ScoredCandidate, explanations []Explanation) []Recommendation {
	results := make([]Recommendation, len(ranked))
	for i, candidate := range ranked {
		results[i] = Recommendation{ScoredCandidate: candidate}
		if i < len(explanations) {
			results[i].Explanation = explanations[i]
		}
	}
	return results
}
