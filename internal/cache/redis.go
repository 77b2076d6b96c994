package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/skillswap-app/skillswap/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
// Every helper here degrades gracefully when Rdb is nil or unreachable:
// Redis holds only a derived counter and an audit queue, never the source
// of truth.
var Rdb *redis.Client

// DefaultQueueName is the Redis list holding request lifecycle events for
// the auditor worker.
var DefaultQueueName = "skillswap_request_events"

// ConnectRedis initializes the global Redis client with environment
// variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishRequestEvent serializes the event and pushes it onto the audit
// queue. A quick network send, nothing more.
func PublishRequestEvent(ctx context.Context, event models.RequestEvent) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal RequestEvent: %w", err)
	}

	queueName := getEnv("EVENT_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

func unreadKey(userID uuid.UUID) string {
	return "unread:" + userID.String()
}

// incrIfExists bumps a counter only when the key is already present. A plain
// INCR would create a missing key at 1, turning a cache miss into a wrong
// hit after a Redis restart or TTL expiry.
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return 0
`)

// IncrUnread bumps the cached unread-notification counter for a user. A cold
// key is left absent so the next GetUnread misses and the caller recomputes
// the count from the database.
func IncrUnread(ctx context.Context, userID uuid.UUID) error {
	if Rdb == nil {
		return nil
	}
	return incrIfExists.Run(ctx, Rdb, []string{unreadKey(userID)}).Err()
}

// ResetUnread drops the cached counter after a mark-all-read. The next read
// recomputes it from the database.
func ResetUnread(ctx context.Context, userID uuid.UUID) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Del(ctx, unreadKey(userID)).Err()
}

// GetUnread returns the cached unread count. The second return value is
// false on a miss or when Redis is down, in which case the caller falls back
// to a COUNT query.
func GetUnread(ctx context.Context, userID uuid.UUID) (int64, bool) {
	if Rdb == nil {
		return 0, false
	}
	val, err := Rdb.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetUnread primes the cached counter, typically right after a fallback
// COUNT query.
func SetUnread(ctx context.Context, userID uuid.UUID, n int64) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Set(ctx, unreadKey(userID), n, 24*time.Hour).Err()
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
