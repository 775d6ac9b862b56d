package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

func newSessionStoreWithRedis(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, ttl, logger.NewTestLogger(t)), mr
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	store, _ := newSessionStoreWithRedis(t, 7*24*time.Hour)

	session, err := store.Create(context.Background(), "u-1", models.RoleCustomer)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	got, err := store.Get(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, models.RoleCustomer, got.Role)
}

func TestSessionStoreGetUnknownToken(t *testing.T) {
	store, _ := newSessionStoreWithRedis(t, time.Hour)

	_, err := store.Get(context.Background(), "no-such-token")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthenticationError))
}

func TestSessionStoreGetExpiredToken(t *testing.T) {
	store, mr := newSessionStoreWithRedis(t, time.Hour)

	session, err := store.Create(context.Background(), "u-1", models.RoleWorker)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Get(context.Background(), session.Token)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthenticationError))
}

func TestSessionStoreDelete(t *testing.T) {
	store, _ := newSessionStoreWithRedis(t, time.Hour)

	session, err := store.Create(context.Background(), "u-1", models.RoleCustomer)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), session.Token))

	_, err = store.Get(context.Background(), session.Token)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthenticationError))

	// Deleting an already revoked token is a no-op.
	assert.NoError(t, store.Delete(context.Background(), session.Token))
}

func TestSessionStoreDeleteAllForUser(t *testing.T) {
	store, _ := newSessionStoreWithRedis(t, time.Hour)

	first, err := store.Create(context.Background(), "u-1", models.RoleCustomer)
	require.NoError(t, err)
	second, err := store.Create(context.Background(), "u-1", models.RoleCustomer)
	require.NoError(t, err)
	other, err := store.Create(context.Background(), "u-2", models.RoleWorker)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAllForUser(context.Background(), "u-1"))

	_, err = store.Get(context.Background(), first.Token)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthenticationError))
	_, err = store.Get(context.Background(), second.Token)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAuthenticationError))

	_, err = store.Get(context.Background(), other.Token)
	assert.NoError(t, err)
}

func TestSessionStoreGetBackendFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewSessionStore(client, time.Hour, logger.NewTestLogger(t))

	mock.ExpectGet(sessionKeyPrefix + "tok-1").SetErr(fmt.Errorf("connection refused"))

	_, err := store.Get(context.Background(), "tok-1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionStoreFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionStoreDeleteAllForUserBackendFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewSessionStore(client, time.Hour, logger.NewTestLogger(t))

	mock.ExpectSMembers(userSessionKeyPrefix + "u-1").SetErr(fmt.Errorf("connection refused"))

	err := store.DeleteAllForUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionStoreFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
