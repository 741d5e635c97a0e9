package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CompletionDeduper tracks references whose charge-success ping was
// already attempted, so callback replays do not ping the tracker again.
// Duplicate pings are acceptable (the deduper is advisory), losing one
// is not allowed to fail the donor flow.
type CompletionDeduper interface {
	Seen(ctx context.Context, reference string) (bool, error)
}

type redisCompletionDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisCompletionDeduper) Seen(ctx context.Context, reference string) (bool, error) {
	key := d.prefix + ":" + reference
	ok, err := d.client.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => already exists => duplicate
	return !ok, nil
}

type memoryCompletionDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryCompletionDeduper(ttl time.Duration) *memoryCompletionDeduper {
	now := time.Now()
	return &memoryCompletionDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryCompletionDeduper) Seen(_ context.Context, reference string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[reference]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[reference] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for ref, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, ref)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewCompletionDeduper builds a Redis deduper and falls back to
// in-memory on failure.
func NewCompletionDeduper(addr, pass string, db int, ttl time.Duration) (CompletionDeduper, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if addr == "" {
		return newMemoryCompletionDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryCompletionDeduper(ttl), err
	}

	return &redisCompletionDeduper{
		client: client,
		prefix: "notchpay:charge",
		ttl:    ttl,
	}, nil
}
