// Package server assembles the HTTP routing and middleware for the API.
package server

import (
	"net/http"

	"skillconnect/internal/common/auth"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/observability"
	"skillconnect/internal/common/response"
	"skillconnect/internal/handlers/account"
	"skillconnect/internal/handlers/ai/advice"
	"skillconnect/internal/handlers/ai/recommend"
	"skillconnect/internal/handlers/booking"
	"skillconnect/internal/handlers/earnings"
	"skillconnect/internal/handlers/listing"
	"skillconnect/internal/handlers/review"
	"skillconnect/internal/models"
)

// Handlers carries the route handlers the router mounts.
type Handlers struct {
	Account   *account.Handler
	Listing   *listing.Handler
	Review    *review.Handler
	Booking   *booking.Handler
	Earnings  *earnings.Handler
	Recommend *recommend.Handler
	Advice    *advice.Handler
}

// Options carries the cross-cutting wiring.
type Options struct {
	Sessions      auth.SessionResolver
	CookieName    string
	Logger        logger.Logger
	Observability *observability.Observability
}

type healthOutput struct {
	Status string `json:"status"`
}

// New builds the API router.
func New(h Handlers, opts Options) http.Handler {
	mux := http.NewServeMux()

	authed := auth.Middleware(opts.Sessions, opts.CookieName, opts.Logger)
	worker := func(next http.HandlerFunc) http.Handler {
		return authed(auth.RequireRole(models.RoleWorker, opts.Logger, next))
	}
	customer := func(next http.HandlerFunc) http.Handler {
		return authed(auth.RequireRole(models.RoleCustomer, opts.Logger, next))
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, healthOutput{Status: "SkillConnect Backend Running"})
	})

	mux.HandleFunc("POST /api/auth/register", h.Account.Register)
	mux.HandleFunc("POST /api/auth/login", h.Account.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Account.Logout)
	mux.Handle("GET /api/auth/profile", authed(http.HandlerFunc(h.Account.Profile)))

	mux.HandleFunc("GET /api/listings", h.Listing.List)
	mux.HandleFunc("GET /api/listings/{id}", h.Listing.Get)
	mux.HandleFunc("GET /api/listings/{id}/reviews", h.Review.ListByListing)
	mux.Handle("POST /api/listings", worker(h.Listing.Create))
	mux.Handle("PUT /api/listings/{id}", authed(http.HandlerFunc(h.Listing.Update)))
	mux.Handle("DELETE /api/listings/{id}", authed(http.HandlerFunc(h.Listing.Remove)))

	mux.Handle("POST /api/reviews", authed(http.HandlerFunc(h.Review.Create)))
	mux.Handle("DELETE /api/reviews/{id}", authed(http.HandlerFunc(h.Review.Remove)))

	mux.Handle("POST /api/bookings", customer(h.Booking.Create))
	mux.Handle("GET /api/bookings/customer", customer(h.Booking.ListForCustomer))
	mux.Handle("GET /api/bookings/worker", worker(h.Booking.ListForWorker))
	mux.Handle("PUT /api/bookings/{id}/status", worker(h.Booking.UpdateStatus))
	mux.Handle("PUT /api/bookings/{id}/cancel", customer(h.Booking.Cancel))

	mux.Handle("GET /api/earnings", worker(h.Earnings.Get))

	mux.Handle("POST /api/ai/recommend", authed(h.Recommend))
	mux.Handle("POST /api/ai/advice", authed(h.Advice))

	chain := RequestLogging(opts.Logger, opts.Observability)
	return chain(mux)
}
