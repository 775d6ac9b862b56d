package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

const bookingColumns = `id, customer_id, worker_id, listing_id, scheduled_date, address, price, status, created_at, updated_at`

// BookingStore persists bookings in PostgreSQL.
type BookingStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewBookingStore(db *sql.DB, log logger.Logger) *BookingStore {
	return &BookingStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "bookings"}),
	}
}

func (s *BookingStore) Create(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		booking.ID, booking.CustomerID, booking.WorkerID, booking.ListingID,
		booking.ScheduledDate, booking.Address, booking.Price, booking.Status,
		booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	return nil
}

func (s *BookingStore) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b models.Booking
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.CustomerID, &b.WorkerID, &b.ListingID,
		&b.ScheduledDate, &b.Address, &b.Price, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("Booking")
	}
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return &b, nil
}

// ListByCustomer returns the customer's bookings, newest first.
func (s *BookingStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, customerID)
}

// ListByWorker returns the worker's incoming bookings, newest first.
func (s *BookingStore) ListByWorker(ctx context.Context, workerID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE worker_id = $1 ORDER BY created_at DESC`
	return s.list(ctx, query, workerID)
}

// UpdateStatus moves a booking to a new status.
func (s *BookingStore) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError(err)
	}
	if affected == 0 {
		return errors.NewNotFoundError("Booking")
	}
	return nil
}

// HasCompleted reports whether the customer has at least one completed
// booking for the listing. Reviews are gated on this.
func (s *BookingStore) HasCompleted(ctx context.Context, listingID, customerID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE listing_id = $1 AND customer_id = $2 AND status = $3
	)`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, listingID, customerID, models.BookingCompleted).Scan(&exists)
	if err != nil {
		return false, errors.NewDatabaseError(err)
	}
	return exists, nil
}

// EarningsSummary aggregates a worker's bookings for the earnings view.
type EarningsSummary struct {
	TotalEarnings float64                      `json:"totalEarnings"`
	StatusCounts  map[models.BookingStatus]int `json:"statusCounts"`
	Recent        []models.Booking             `json:"recentBookings"`
}

// Earnings sums completed booking prices, counts bookings per status and
// returns the five most recent bookings for the worker.
func (s *BookingStore) Earnings(ctx context.Context, workerID string) (*EarningsSummary, error) {
	summary := &EarningsSummary{
		StatusCounts: map[models.BookingStatus]int{
			models.BookingPending:   0,
			models.BookingAccepted:  0,
			models.BookingCompleted: 0,
			models.BookingCancelled: 0,
		},
	}

	query := `SELECT status, COUNT(*), COALESCE(SUM(price) FILTER (WHERE status = $2), 0)
		FROM bookings WHERE worker_id = $1 GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query, workerID, models.BookingCompleted)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.BookingStatus
		var count int
		var completedSum float64
		if err := rows.Scan(&status, &count, &completedSum); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		summary.StatusCounts[status] = count
		if status == models.BookingCompleted {
			summary.TotalEarnings = completedSum
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}

	recentQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE worker_id = $1 ORDER BY created_at DESC LIMIT 5`
	recent, err := s.list(ctx, recentQuery, workerID)
	if err != nil {
		return nil, err
	}
	summary.Recent = recent

	return summary, nil
}

func (s *BookingStore) list(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.WorkerID, &b.ListingID,
			&b.ScheduledDate, &b.Address, &b.Price, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, errors.NewDatabaseError(err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError(err)
	}
	return bookings, nil
}
