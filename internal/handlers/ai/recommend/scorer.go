package recommend

import "math"

// Scoring weights. Fixed, not configurable.
const (
	ratingWeight     = 10.0
	experienceWeight = 3.0
	priceBase        = 20.0
	priceDecay       = 10.0
)

// Score computes the composite suitability score for one candidate against
// a target budget. Missing numeric fields count as zero; the function never
// fails.
//
//	rating*10 + experienceYears*3 + priceComponent
//
// where priceComponent is 20 for an exact budget match, decaying linearly
// by 1 point per 10 units of price distance, floored at 0.
func Score(c ServiceCandidate, budget float64) float64 {
	ratingComponent := c.Rating * ratingWeight
	experienceComponent := float64(c.OwnerExperienceYears) * experienceWeight

	priceDiff := math.Abs(c.Price - budget)
	priceComponent := priceBase
	if priceDiff != 0 {
		priceComponent = math.Max(0, priceBase-priceDiff/priceDecay)
	}

	return ratingComponent + experienceComponent + priceComponent
}
