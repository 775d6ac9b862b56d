package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

func newBookingStoreWithMock(t *testing.T) (*BookingStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingStore(db, logger.NewTestLogger(t)), mock
}

func bookingRows(bookings ...models.Booking) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "customer_id", "worker_id", "listing_id", "scheduled_date",
		"address", "price", "status", "created_at", "updated_at",
	})
	for _, b := range bookings {
		rows.AddRow(b.ID, b.CustomerID, b.WorkerID, b.ListingID, b.ScheduledDate,
			b.Address, b.Price, b.Status, b.CreatedAt, b.UpdatedAt)
	}
	return rows
}

func TestBookingStoreListByCustomer(t *testing.T) {
	store, mock := newBookingStoreWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT .+ FROM bookings WHERE customer_id").
		WithArgs("c-1").
		WillReturnRows(bookingRows(models.Booking{
			ID: "b-1", CustomerID: "c-1", WorkerID: "w-1", ListingID: "l-1",
			ScheduledDate: now, Price: 500, Status: models.BookingPending,
			CreatedAt: now, UpdatedAt: now,
		}))

	bookings, err := store.ListByCustomer(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-1", bookings[0].ID)
	assert.Equal(t, models.BookingPending, bookings[0].Status)
}

func TestBookingStoreUpdateStatusNotFound(t *testing.T) {
	store, mock := newBookingStoreWithMock(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateStatus(context.Background(), "missing", models.BookingAccepted)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeResourceNotFound))
}

func TestBookingStoreHasCompleted(t *testing.T) {
	store, mock := newBookingStoreWithMock(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("l-1", "c-1", models.BookingCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := store.HasCompleted(context.Background(), "l-1", "c-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBookingStoreEarnings(t *testing.T) {
	store, mock := newBookingStoreWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs("w-1", models.BookingCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "sum"}).
			AddRow("completed", 3, 1500.0).
			AddRow("pending", 2, 0.0))

	mock.ExpectQuery("SELECT .+ FROM bookings WHERE worker_id .+ LIMIT 5").
		WithArgs("w-1").
		WillReturnRows(bookingRows(models.Booking{
			ID: "b-9", CustomerID: "c-2", WorkerID: "w-1", ListingID: "l-1",
			ScheduledDate: now, Price: 500, Status: models.BookingCompleted,
			CreatedAt: now, UpdatedAt: now,
		}))

	summary, err := store.Earnings(context.Background(), "w-1")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, summary.TotalEarnings)
	assert.Equal(t, 3, summary.StatusCounts[models.BookingCompleted])
	assert.Equal(t, 2, summary.StatusCounts[models.BookingPending])
	assert.Equal(t, 0, summary.StatusCounts[models.BookingCancelled])
	require.Len(t, summary.Recent, 1)
	assert.Equal(t, "b-9", summary.Recent[0].ID)
}
