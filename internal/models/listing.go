package models

import "time"

// Categories accepted for a listing.
var ListingCategories = []string{
	"Electrician",
	"Plumber",
	"Carpenter",
	"Cleaner",
	"AC Repair",
	"Painter",
	"Mechanic",
	"Pest Control",
	"Room Services",
	"Other",
}

func ValidCategory(c string) bool {
	for _, cat := range ListingCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// OwnerProfile is the worker profile snapshot embedded in each listing
// document so candidate retrieval needs no join.
type OwnerProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Experience string `json:"experience,omitempty"`
}

// Listing is a service offering stored in the listings document index.
type Listing struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       float64      `json:"price"`
	Location    string       `json:"location"`
	Owner       OwnerProfile `json:"owner"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	Available   bool         `json:"available"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ListingFilter narrows listing queries.
type ListingFilter struct {
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     string // priceLow | priceHigh | ratingHigh
}
