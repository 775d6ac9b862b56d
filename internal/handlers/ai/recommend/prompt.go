package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/validation"
)

// explanationSchema pins the shape the model is asked to produce: an array
// of {rank, reason, confidence} objects in rank order.
const explanationSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"rank": {"type": "integer", "minimum": 1},
			"reason": {"type": "string"},
			"confidence": {"type": "string", "enum": ["high", "medium", "low"]}
		},
		"required": ["rank", "reason", "confidence"]
	}
}`

// FallbackExplanations is substituted whenever the model's output cannot
// be parsed into the expected shape. It pairs with the top ranked
// candidate only.
func FallbackExplanations() []Explanation {
	return []Explanation{{Rank: 1, Reason: "AI explanation unavailable", Confidence: "low"}}
}

// BuildPrompt enumerates the ranked candidates for the model and pins the
// output contract to a bare JSON array.
func BuildPrompt(ranked []ScoredCandidate) string {
	var b strings.Builder

	b.WriteString("You are ranking local service workers for a customer.\n")
	b.WriteString("Here are the candidates in ranked order:\n\n")

	for i, c := range ranked {
		experience := "N/A"
		if c.OwnerExperienceRaw != "" {
			experience = fmt.Sprintf("%d years", c.OwnerExperienceYears)
		}
		b.WriteString(fmt.Sprintf(
			"%d. %s offering %q, rating %.1f/5, experience %s, price %.0f, match score %.1f\n",
			i+1, c.OwnerName, c.Title, c.Rating, experience, c.Price, c.Score,
		))
	}

	b.WriteString("\nFor each candidate, give a one-sentence reason why they were ranked at that position ")
	b.WriteString("and your confidence in the ranking.\n")
	b.WriteString("Return ONLY a JSON array of objects, one per candidate in rank order, ")
	b.WriteString(`each shaped {"rank": <number>, "reason": "<short text>", "confidence": "high"|"medium"|"low"}. `)
	b.WriteString("No prose, no markdown, no code fences.")

	return b.String()
}

// ParseExplanations parses the model's raw output into explanations. A
// malformed response yields an AI_RESPONSE_MALFORMED error; the caller
// decides the fallback.
func ParseExplanations(raw string) ([]Explanation, error) {
	cleaned := stripCodeFence(raw)

	var explanations []Explanation
	if err := json.Unmarshal([]byte(cleaned), &explanations); err != nil {
		return nil, errors.NewAIResponseMalformedError(fmt.Sprintf("not a JSON array: %v", err))
	}

	var shape []map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &shape); err != nil {
		return nil, errors.NewAIResponseMalformedError(fmt.Sprintf("not an object array: %v", err))
	}
	if err := validation.ValidateSchema(shape, explanationSchema); err != nil {
		return nil, errors.NewAIResponseMalformedError(err.Error())
	}

	return explanations, nil
}

// stripCodeFence removes a wrapping markdown fence if the model ignored
// the no-fences instruction.
func stripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
