package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gearshed/storefront/internal/domain"
)

const wishlistKeyPrefix = "gearshed:wishlist:"

func wishlistKey(sessionID string) string {
	return wishlistKeyPrefix + sessionID
}

// toggleScript flips a product's membership in one round trip so two rapid
// toggles cannot interleave into a double-add or double-remove.
var toggleScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 1 then
  redis.call('HDEL', KEYS[1], ARGV[1])
  return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// WishlistRepository implements repository.WishlistRepository using a Redis
// hash per session: one field per saved product, value is the item JSON.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewWishlistRepository creates a new Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *WishlistRepository {
	return &WishlistRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// List returns the session's saved products, newest first. Fields that fail
// to decode are skipped rather than failing the whole listing.
func (r *WishlistRepository) List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	fields, err := r.client.HGetAll(ctx, wishlistKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall wishlist: %w", err)
	}

	items := make([]domain.WishlistItem, 0, len(fields))
	for productID, raw := range fields {
		var item domain.WishlistItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil || !item.Valid() {
			r.logger.WarnContext(ctx, "skipping corrupt wishlist entry",
				slog.String("session_id", sessionID),
				slog.String("product_id", productID),
			)
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.After(items[j].AddedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

// Add saves a product for the session. Re-adding an already saved product
// refreshes the snapshot but keeps the original AddedAt so the listing order
// is stable.
func (r *WishlistRepository) Add(ctx context.Context, sessionID string, item domain.WishlistItem) error {
	key := wishlistKey(sessionID)

	existing, err := r.client.HGet(ctx, key, item.ID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis hget wishlist: %w", err)
	}
	if err == nil {
		var prior domain.WishlistItem
		if json.Unmarshal([]byte(existing), &prior) == nil && !prior.AddedAt.IsZero() {
			item.AddedAt = prior.AddedAt
		}
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal wishlist item: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, item.ID, data)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset wishlist: %w", err)
	}

	return nil
}

// Remove deletes a saved product. Returns whether anything was removed.
func (r *WishlistRepository) Remove(ctx context.Context, sessionID, productID string) (bool, error) {
	removed, err := r.client.HDel(ctx, wishlistKey(sessionID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis hdel wishlist: %w", err)
	}

	return removed > 0, nil
}

// Toggle atomically adds the product if absent or removes it if present.
// Returns true when the product ended up saved.
func (r *WishlistRepository) Toggle(ctx context.Context, sessionID string, item domain.WishlistItem) (bool, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return false, fmt.Errorf("marshal wishlist item: %w", err)
	}

	res, err := toggleScript.Run(ctx, r.client,
		[]string{wishlistKey(sessionID)},
		item.ID, string(data), r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis toggle wishlist: %w", err)
	}

	return res == 1, nil
}

// Contains reports whether the product is saved for the session.
func (r *WishlistRepository) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	ok, err := r.client.HExists(ctx, wishlistKey(sessionID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis hexists wishlist: %w", err)
	}

	return ok, nil
}

// Count returns how many products the session has saved. An absent wishlist
// counts as zero.
func (r *WishlistRepository) Count(ctx context.Context, sessionID string) (int64, error) {
	n, err := r.client.HLen(ctx, wishlistKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis hlen wishlist: %w", err)
	}

	return n, nil
}

// Clear removes every saved product for the session. Clearing an absent
// wishlist is not an error.
func (r *WishlistRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, wishlistKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
