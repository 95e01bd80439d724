package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SummaryCache stores generated summaries in Redis for a bounded TTL so
// repeat requests for the same document and mode skip the generation model.
// Entries are never invalidated on document deletion; staleness is bounded
// by the TTL.
type SummaryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redisv9.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, documentID, mode, topic string) (string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(documentID, mode, topic)).Result()
	if err == redisv9.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get summary failed: %w", err)
	}
	return raw, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, documentID, mode, topic, summary string) error {
	if err := c.client.Set(ctx, c.key(documentID, mode, topic), summary, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set summary failed: %w", err)
	}
	return nil
}

// key hashes the topic so free-form user input stays out of the key space.
func (c *SummaryCache) key(documentID, mode, topic string) string {
	if topic == "" {
		return fmt.Sprintf("summary:%s:%s", documentID, mode)
	}
	sum := sha1.Sum([]byte(topic))
	return fmt.Sprintf("summary:%s:%s:%s", documentID, mode, hex.EncodeToString(sum[:]))
}
