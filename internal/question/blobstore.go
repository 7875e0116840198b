package question

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// importBlobKey matches one logical "last imported text" slot, like the
// single local-storage key the web client used.
const importBlobKey = "quizville:import:raw"

// RedisBlobStore keeps the raw import text in Redis with no expiry.
type RedisBlobStore struct {
	client *redis.Client
}

var _ BlobStore = (*RedisBlobStore)(nil)

// NewRedisBlobStore wraps a Redis client.
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

// Get returns the stored blob, or empty when none was ever imported.
func (s *RedisBlobStore) Get(ctx context.Context) (string, error) {
	text, err := s.client.Get(ctx, importBlobKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return text, err
}

// Set overwrites the stored blob.
func (s *RedisBlobStore) Set(ctx context.Context, text string) error {
	return s.client.Set(ctx, importBlobKey, text, 0).Err()
}
