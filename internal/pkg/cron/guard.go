package cron

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Guard serializes runs of a job and remembers the day of its last completed run.
type Guard interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (release func(), ok bool, err error)
	LastRunDay(ctx context.Context, job string) (string, error)
	MarkRunDay(ctx context.Context, job, day string) error
}

// MemoryGuard is a single-process Guard.
type MemoryGuard struct {
	mu      sync.Mutex
	locked  map[string]bool
	lastRun map[string]string
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{
		locked:  make(map[string]bool),
		lastRun: make(map[string]string),
	}
}

func (g *MemoryGuard) Acquire(_ context.Context, job string, _ time.Duration) (func(), bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locked[job] {
		return func() {}, false, nil
	}
	g.locked[job] = true
	return func() {
		g.mu.Lock()
		delete(g.locked, job)
		g.mu.Unlock()
	}, true, nil
}

func (g *MemoryGuard) LastRunDay(_ context.Context, job string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRun[job], nil
}

func (g *MemoryGuard) MarkRunDay(_ context.Context, job, day string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastRun[job] = day
	return nil
}

// RedisGuard shares the lock and the watermark between API replicas and the CLI.
type RedisGuard struct {
	client   redis.Cmdable
	newToken func() string
}

func NewRedisGuard(client redis.Cmdable) *RedisGuard {
	return &RedisGuard{client: client, newToken: uuid.NewString}
}

func lockKey(job string) string    { return "cron:lock:" + job }
func lastRunKey(job string) string { return "cron:last_run:" + job }

// watermarkTTL keeps the key around long enough to cover day boundaries.
const watermarkTTL = 72 * time.Hour

// releaseScript deletes the lock only while it still holds the caller's token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

func (g *RedisGuard) Acquire(ctx context.Context, job string, ttl time.Duration) (func(), bool, error) {
	token := g.newToken()
	ok, err := g.client.SetNX(ctx, lockKey(job), token, ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}
	return func() {
		// Released with a fresh context: the job context may already be canceled.
		if err := g.client.Eval(context.Background(), releaseScript, []string{lockKey(job)}, token).Err(); err != nil {
			slog.Warn("Failed to release job lock", "job", job, "error", err)
		}
	}, true, nil
}

func (g *RedisGuard) LastRunDay(ctx context.Context, job string) (string, error) {
	day, err := g.client.Get(ctx, lastRunKey(job)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return day, err
}

func (g *RedisGuard) MarkRunDay(ctx context.Context, job, day string) error {
	return g.client.Set(ctx, lastRunKey(job), day, watermarkTTL).Err()
}
