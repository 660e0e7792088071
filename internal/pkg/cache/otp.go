package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/auth"
	"github.com/redis/go-redis/v9"
)

// otpGrace keeps an expired code around long enough to answer "expired" instead of "unknown".
const otpGrace = 10 * time.Minute

type OTPStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewOTPStore(client redis.Cmdable) *OTPStore {
	return &OTPStore{client: client, now: time.Now}
}

func otpKey(email string) string {
	return "otp:password_reset:" + strings.ToLower(email)
}

func (s *OTPStore) Save(ctx context.Context, email string, entry auth.OTPEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := entry.ExpiresAt.Sub(s.now()) + otpGrace
	if err := s.client.Set(ctx, otpKey(email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, email string) (auth.OTPEntry, error) {
	raw, err := s.client.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.OTPEntry{}, auth.ErrOTPNotFound
	}
	if err != nil {
		return auth.OTPEntry{}, fmt.Errorf("load otp: %w", err)
	}

	var entry auth.OTPEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return auth.OTPEntry{}, fmt.Errorf("decode otp: %w", err)
	}
	return entry, nil
}

func (s *OTPStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, otpKey(email)).Err()
}

// MemoryOTPStore is used when Redis is not configured. Codes do not survive a restart.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]auth.OTPEntry
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]auth.OTPEntry)}
}

func (s *MemoryOTPStore) Save(_ context.Context, email string, entry auth.OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[strings.ToLower(email)] = entry
	return nil
}

func (s *MemoryOTPStore) Get(_ context.Context, email string) (auth.OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[strings.ToLower(email)]
	if !ok {
		return auth.OTPEntry{}, auth.ErrOTPNotFound
	}
	return entry, nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.ToLower(email))
	return nil
}
