package listing

import "skillconnect/internal/models"

// CreateInput is the body for creating a listing.
type CreateInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
}

// UpdateInput carries optional field updates. Nil means leave unchanged.
type UpdateInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

type ListOutput struct {
	OK       bool             `json:"ok"`
	Listings []models.Listing `json:"listings"`
}

type ItemOutput struct {
	OK      bool            `json:"ok"`
	Listing *models.Listing `json:"listing"`
}

type MessageOutput struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
