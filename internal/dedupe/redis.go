package dedupe

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "blog-auto-review:link:"

// Store помнит ссылки, которые уже ушли в очередь.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	}), ttl)
}

func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Store{client: client, ttl: ttl}
}

// Seen сообщает, была ли ссылка уже помечена. Ключ не трогает.
func (s *Store) Seen(ctx context.Context, link string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+link).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Mark помечает ссылку на ttl. Повторная пометка срок не продлевает.
func (s *Store) Mark(ctx context.Context, link string) error {
	return s.client.SetNX(ctx, keyPrefix+link, 1, s.ttl).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
