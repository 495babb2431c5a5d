package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "booking:token:"
	pendingMarker  = "pending"
)

// IdempotencyStore maps a user's request token to the appointment it produced.
// A token holds pendingMarker while its commit is running.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, userID uuid.UUID, token string) (*uuid.UUID, bool, error) {
	key := tokenKey(userID, token)

	ok, err := s.client.SetNX(ctx, key, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to reserve request token: %w", err)
	}
	if ok {
		return nil, true, nil
	}

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		// expired or released between the two calls
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read request token: %w", err)
	}

	if val == pendingMarker {
		return nil, false, nil
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt request token %q: %w", token, err)
	}

	return &id, false, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, userID uuid.UUID, token string, appointmentID uuid.UUID) error {
	return s.client.Set(ctx, tokenKey(userID, token), appointmentID.String(), s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, userID uuid.UUID, token string) error {
	return s.client.Del(ctx, tokenKey(userID, token)).Err()
}

// tokenKey scopes the token to its user.
func tokenKey(userID uuid.UUID, token string) string {
	return tokenKeyPrefix + userID.String() + ":" + token
}
