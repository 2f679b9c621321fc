package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Balamathankumar/store-front/internal/domain"
	apperrors "github.com/Balamathankumar/store-front/pkg/errors"
)

const keyPrefix = "cart:"

// SnapshotRepository implements repository.SnapshotRepository using Redis.
type SnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotRepository creates a new Redis-backed cart snapshot repository.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the persisted line items for a session from Redis.
func (r *SnapshotRepository) Get(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	key := keyPrefix + sessionID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot: %w", err)
	}

	return items, nil
}

// Save persists a session's line items to Redis with the configured TTL.
func (r *SnapshotRepository) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	key := keyPrefix + sessionID

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes a session's snapshot from Redis.
func (r *SnapshotRepository) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
