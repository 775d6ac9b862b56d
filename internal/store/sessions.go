package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"skillconnect/internal/common/errors"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/models"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// SessionStore keeps sessions in Redis keyed by an opaque token. A per-user
// set tracks the user's live tokens so all of them can be revoked at once.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, log logger.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"store": "sessions"}),
	}
}

// Create mints a new session token for the user.
func (s *SessionStore) Create(ctx context.Context, userID string, role models.Role) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKeyPrefix+session.Token, payload, s.ttl)
	pipe.SAdd(ctx, userSessionKeyPrefix+userID, session.Token)
	pipe.Expire(ctx, userSessionKeyPrefix+userID, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.NewSessionStoreError(err)
	}

	return session, nil
}

// Get resolves a token to its session. Unknown or expired tokens yield an
// authentication error.
func (s *SessionStore) Get(ctx context.Context, token string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.NewAuthenticationError("Invalid or expired session")
	}
	if err != nil {
		return nil, errors.NewSessionStoreError(err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, errors.NewSessionStoreError(err)
	}
	if session.IsExpired() {
		return nil, errors.NewAuthenticationError("Invalid or expired session")
	}
	return &session, nil
}

// Delete revokes a single token. Unknown tokens are not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeAuthenticationError) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKeyPrefix+token)
	pipe.SRem(ctx, userSessionKeyPrefix+session.UserID, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewSessionStoreError(err)
	}
	return nil
}

// DeleteAllForUser revokes every live session for the user.
func (s *SessionStore) DeleteAllForUser(ctx context.Context, userID string) error {
	setKey := userSessionKeyPrefix + userID

	tokens, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return errors.NewSessionStoreError(err)
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKeyPrefix+token)
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.NewSessionStoreError(err)
	}
	return nil
}
