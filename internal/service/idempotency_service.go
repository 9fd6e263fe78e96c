package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisIdempotencyKeyPrefix namespaces submission idempotency keys
	RedisIdempotencyKeyPrefix = "appointment:idempotency:"

	// Timeout for individual Redis operations
	redisOpTimeout = 2 * time.Second

	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyStore remembers which appointment a client-supplied
// Idempotency-Key produced so a retried submission returns the same row.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (uuid.UUID, bool, error)
	Remember(ctx context.Context, key string, appointmentID uuid.UUID) error
}

type redisIdempotencyStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewIdempotencyStore(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &redisIdempotencyStore{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

func (s *redisIdempotencyStore) Lookup(ctx context.Context, key string) (uuid.UUID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	value, err := s.redisClient.Get(ctx, RedisIdempotencyKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("idempotency lookup %q: %w", key, err)
	}

	id, err := uuid.Parse(value)
	if err != nil {
		s.log.Warnf("Discarding malformed idempotency value for key %q: %+v", key, err)
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// Remember stores the mapping only if the key is unused; the first
// committed appointment wins.
func (s *redisIdempotencyStore) Remember(ctx context.Context, key string, appointmentID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.redisClient.SetNX(ctx, RedisIdempotencyKeyPrefix+key, appointmentID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember %q: %w", key, err)
	}
	s.log.Debugf("Remembered idempotency key %q -> %s", key, appointmentID)
	return nil
}
