package advice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"skillconnect/internal/models"
)

// Placeholder defaults keep every prompt field populated; the model never
// sees an empty value.
const (
	defaultName       = "Unknown"
	defaultTitle      = "Service"
	defaultExperience = "0"
	defaultBio        = "No bio provided"
	defaultCategory   = "General"
)

// The two parse failure modes carry distinct fallback payloads: output
// that is not JSON at all versus a JSON object without a tips field.
var (
	ErrUnparsable  = errors.New("unparsable model output")
	ErrMissingTips = errors.New("tips field missing")
)

// FallbackFor maps a parse failure to its substitute tip list.
func FallbackFor(err error) []string {
	if errors.Is(err, ErrMissingTips) {
		return []string{"AI output missing tips"}
	}
	return []string{"Could not parse AI output."}
}

// BuildPrompt embeds one worker's profile and asks for five improvement tips.
func BuildPrompt(listing *models.Listing) string {
	name := stringOr(listing.Owner.Name, defaultName)
	title := stringOr(listing.Title, defaultTitle)
	experience := stringOr(listing.Owner.Experience, defaultExperience)
	bio := stringOr(listing.Owner.Bio, defaultBio)
	category := stringOr(listing.Category, defaultCategory)

	var b strings.Builder
	b.WriteString("You are advising a local service worker on improving their marketplace profile.\n\n")
	b.WriteString(fmt.Sprintf("Name: %s\n", name))
	b.WriteString(fmt.Sprintf("Service: %s\n", title))
	b.WriteString(fmt.Sprintf("Category: %s\n", category))
	b.WriteString(fmt.Sprintf("Price: %.0f\n", listing.Price))
	b.WriteString(fmt.Sprintf("Rating: %.1f/5\n", listing.Rating))
	b.WriteString(fmt.Sprintf("Experience: %s\n", experience))
	b.WriteString(fmt.Sprintf("Bio: %s\n", bio))
	b.WriteString("\nSuggest concrete ways this worker can attract more bookings.\n")
	b.WriteString(`Return ONLY a JSON object shaped {"tips": ["...", "...", "...", "...", "..."]} with exactly 5 short tips. `)
	b.WriteString("No prose, no markdown, no code fences.")

	return b.String()
}

// ParseTips extracts the tip list from the model's raw output. The two
// failure modes map to distinct fallbacks chosen by the caller.
func ParseTips(raw string) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	rawTips, ok := parsed["tips"]
	if !ok {
		return nil, ErrMissingTips
	}

	var tips []string
	if err := json.Unmarshal(rawTips, &tips); err != nil {
		return nil, fmt.Errorf("%w: tips is not a string array: %v", ErrUnparsable, err)
	}
	return tips, nil
}

func stringOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

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
