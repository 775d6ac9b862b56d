package models

import "time"

type Review struct {
	ID        string    `json:"id" db:"id"`
	ListingID string    `json:"listingId" db:"listing_id"`
	UserID    string    `json:"userId" db:"user_id"`
	UserName  string    `json:"userName,omitempty" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RatingSummary is the aggregate recomputed after review writes and pushed
// back onto the listing document.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
