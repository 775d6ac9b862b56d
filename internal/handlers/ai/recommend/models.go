package recommend

import (
	"strconv"
	"strings"

	"skillconnect/internal/models"
)

// ServiceCandidate is an immutable snapshot of a listing plus its owner's
// profile, read once per ranking request.
type ServiceCandidate struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	Rating               float64 `json:"rating"`
	OwnerID              string  `json:"ownerId"`
	OwnerName            string  `json:"ownerName"`
	OwnerBio             string  `json:"ownerBio,omitempty"`
	OwnerExperienceYears int     `json:"ownerExperienceYears"`

	// Raw experience text as stored on the profile, kept for prompts where
	// a missing value renders as "N/A" rather than 0.
	OwnerExperienceRaw string `json:"-"`
}

// ScoredCandidate carries the derived score. The score is never persisted.
type ScoredCandidate struct {
	ServiceCandidate
	Score float64 `json:"score"`
}

// Explanation is one AI justification, associated to a ranked slot by
// array position, not by candidate id.
type Explanation struct {
	Rank       int    `json:"rank,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// Recommendation pairs a ranked candidate with its explanation. Candidates
// past the end of the explanation list carry an empty explanation.
type Recommendation struct {
	ScoredCandidate
	Explanation Explanation `json:"explanation"`
}

// Input is the request body for the recommendation endpoint.
type Input struct {
	Service string      `json:"service"`
	Budget  interface{} `json:"budget"`
	TopK    interface{} `json:"topK"`
}

// Output is the success response body.
type Output struct {
	OK      bool             `json:"ok"`
	Results []Recommendation `json:"results"`
	Message string           `json:"message,omitempty"`
}

// CandidateFromListing snapshots a listing document into a candidate.
func CandidateFromListing(listing models.Listing) ServiceCandidate {
	return ServiceCandidate{
		ID:                   listing.ID,
		Title:                listing.Title,
		Category:             listing.Category,
		Price:                listing.Price,
		Rating:               listing.Rating,
		OwnerID:              listing.Owner.ID,
		OwnerName:            listing.Owner.Name,
		OwnerBio:             listing.Owner.Bio,
		OwnerExperienceYears: ParseExperienceYears(listing.Owner.Experience),
		OwnerExperienceRaw:   listing.Owner.Experience,
	}
}

// ParseExperienceYears extracts the leading integer from free-text
// experience ("5 years" -> 5). Absent or non-numeric text counts as zero.
func ParseExperienceYears(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	years, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	return years
}

// ParseNumber coerces a loosely typed JSON value to a float64, with zero
// standing in for anything that is not a valid number.
func ParseNumber(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// ParseTopK coerces the requested result count, defaulting to 3 and
// clamping into [1, 20].
func ParseTopK(value interface{}) int {
	k := int(ParseNumber(value))
	if k <= 0 {
		return 3
	}
	if k > 20 {
		return 20
	}
	return k
}
