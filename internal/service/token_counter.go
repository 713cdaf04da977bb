package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-queue-engine/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrCounterUnavailable is returned when Redis cannot allocate a token
// number; callers fall back to the database path under the clinic lock.
var ErrCounterUnavailable = errors.New("token counter unavailable")

// nextTokenScript atomically increments a clinic-day counter and stamps
// its TTL on first use. The Go client switches to EVALSHA after the
// first call, so the hot path sends only the script hash.
var nextTokenScript = redis.NewScript(`
	local number = redis.call('INCR', KEYS[1])
	if number == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return number
`)

const tokenCounterKeyPrefix = "queue:token_counter:"

// TokenCounter issues per-clinic-per-day token numbers starting at 1.
// Redis executes the increment atomically, so concurrent walk-in and
// check-in requests never share a number without any app-level lock.
// On startup the counters are rebuilt from MAX(token_number) in
// Postgres so a Redis flush cannot rewind the sequence.
type TokenCounter struct {
	db          *gorm.DB
	redisClient *redis.Client
	log         *logrus.Logger
	tokenRepo   repository.QueueTokenRepository
}

func NewTokenCounter(db *gorm.DB, redisClient *redis.Client, log *logrus.Logger, tokenRepo repository.QueueTokenRepository) *TokenCounter {
	return &TokenCounter{
		db:          db,
		redisClient: redisClient,
		log:         log,
		tokenRepo:   tokenRepo,
	}
}

// Next allocates the next token number for the clinic-day. date must be
// date-truncated. Returns ErrCounterUnavailable when Redis is down.
func (c *TokenCounter) Next(ctx context.Context, clinicID uuid.UUID, date time.Time) (int, error) {
	key := counterKey(clinicID, date)
	ttl := counterTTL(date)

	number, err := nextTokenScript.Run(ctx, c.redisClient, []string{key}, int(ttl.Seconds())).Int()
	if err != nil {
		c.log.Warnf("Failed to allocate token number for clinic %s: %+v", clinicID, err)
		return 0, fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}

	return number, nil
}

// SyncOnStartup rebuilds today's counters from the database. Must run
// before traffic is accepted so a cold Redis never re-issues numbers
// already persisted in queue_tokens.
func (c *TokenCounter) SyncOnStartup(ctx context.Context, today time.Time) error {
	if err := c.redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	maxima, err := c.tokenRepo.MaxTokenNumbersForDate(c.db.WithContext(ctx), today)
	if err != nil {
		return fmt.Errorf("query token maxima: %w", err)
	}

	if len(maxima) == 0 {
		c.log.Info("No issued tokens today, counters start fresh")
		return nil
	}

	ttl := counterTTL(today)
	pipe := c.redisClient.TxPipeline()
	for _, m := range maxima {
		pipe.Set(ctx, counterKey(m.ClinicID, today), m.MaxTokenNumber, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("counter sync pipeline: %w", err)
	}

	c.log.Infof("Token counters re-synced for %d clinics", len(maxima))
	return nil
}

func counterKey(clinicID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s%s:%s", tokenCounterKeyPrefix, clinicID, date.Format("20060102"))
}

// counterTTL keeps the counter alive until well past the clinic day so
// late-night walk-ins still see it, then lets Redis reclaim it.
func counterTTL(date time.Time) time.Duration {
	expireAt := date.AddDate(0, 0, 2)
	ttl := time.Until(expireAt)
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
