package models

import "time"

// BookingStatus follows pending → accepted → completed / cancelled.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingAccepted, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

type Booking struct {
	ID            string        `json:"id" db:"id"`
	CustomerID    string        `json:"customerId" db:"customer_id"`
	WorkerID      string        `json:"workerId" db:"worker_id"`
	ListingID     string        `json:"listingId" db:"listing_id"`
	ScheduledDate time.Time     `json:"scheduledDate" db:"scheduled_date"`
	Address       string        `json:"address" db:"address"`
	Price         float64       `json:"price" db:"price"`
	Status        BookingStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
}
