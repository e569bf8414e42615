package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/juangracia/booking-mvp-case-study/internal/api/metrics"
	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

const availabilityTTL = 5 * time.Minute

// AvailabilityCache memoises day-availability projections in Redis.
// Key format: availability:<resource_id>:<YYYY-MM-DD>. Entries are TTL-bounded
// and additionally dropped for a whole resource whenever one of its bookings
// is created or cancelled, so a stale projection can outlive a change only
// within a single key lookup, never across an invalidation.
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache creates an AvailabilityCache wrapping the given client.
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

func (c *AvailabilityCache) Get(ctx context.Context, resourceID string, day time.Time) ([]domain.AvailabilitySlot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(resourceID, day)).Bytes()
	if err == redis.Nil {
		metrics.AvailabilityCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("availability cache get: %w", err)
	}

	var slots []domain.AvailabilitySlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		// treat a corrupt entry as a miss; it will be overwritten
		metrics.AvailabilityCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	metrics.AvailabilityCacheTotal.WithLabelValues("hit").Inc()
	return slots, true, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, resourceID string, day time.Time, slots []domain.AvailabilitySlot) error {
	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability cache marshal: %w", err)
	}
	return c.client.Set(ctx, c.key(resourceID, day), raw, availabilityTTL).Err()
}

// Invalidate drops every cached day for the resource.
func (c *AvailabilityCache) Invalidate(ctx context.Context, resourceID string) error {
	pattern := fmt.Sprintf("availability:%s:*", resourceID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("availability cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *AvailabilityCache) key(resourceID string, day time.Time) string {
	return fmt.Sprintf("availability:%s:%s", resourceID, day.UTC().Format("2006-01-02"))
}
