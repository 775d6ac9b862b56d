package advice

// Input is the request body for the advice endpoint.
type Input struct {
	ListingID string `json:"listingId"`
}

// Output is the success response body.
type Output struct {
	OK     bool     `json:"ok"`
	Advice []string `json:"advice"`
}
