package redisad

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// Sessions stores opaque session tokens mapped to user ids, expiring after their TTL.
type Sessions struct{ c *redis.Client }

func NewSessions(c *redis.Client) *Sessions { return &Sessions{c: c} }

func (s *Sessions) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	if err := s.c.Set(ctx, sessionPrefix+token, userID, ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Sessions) Lookup(ctx context.Context, token string) (int64, bool, error) {
	v, err := s.c.Get(ctx, sessionPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Sessions) Delete(ctx context.Context, token string) error {
	return s.c.Del(ctx, sessionPrefix+token).Err()
}
