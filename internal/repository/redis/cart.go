package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gearshed/storefront/internal/domain"
	apperrors "github.com/gearshed/storefront/pkg/errors"
)

const cartKeyPrefix = "gearshed:cart:"

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}

// CartRepository implements repository.CartRepository using Redis. Carts are
// stored as a single JSON document per session with a sliding TTL.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves a cart by session ID from Redis. A snapshot that fails to
// decode or violates the cart invariants is treated as absent, so callers
// fall back to an empty cart instead of serving garbage.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", sessionID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		r.logger.WarnContext(ctx, "discarding corrupt cart snapshot",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("cart", sessionID)
	}
	if !cart.Valid() {
		r.logger.WarnContext(ctx, "discarding invalid cart snapshot",
			slog.String("session_id", sessionID),
		)
		return nil, apperrors.NotFound("cart", sessionID)
	}
	if cart.Items == nil {
		cart.Items = []domain.LineItem{}
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// SaveIfVersion persists the cart only if the stored version still matches
// expectedVersion, using WATCH for optimistic concurrency. expectedVersion 0
// means the key must not exist yet. On success the stored version is
// expectedVersion+1; returns false when a concurrent writer got there first.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	key := cartKey(cart.SessionID)
	saved := false

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return nil
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var current domain.Cart
			// A snapshot that fails to decode or violates the cart
			// invariants counts as absent, same as Get.
			if jsonErr := json.Unmarshal(data, &current); jsonErr == nil && current.Valid() {
				if current.Version != expectedVersion {
					return nil
				}
			} else if expectedVersion != 0 {
				return nil
			}
		}

		cart.Version = expectedVersion + 1
		payload, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		saved = true
		return nil
	}

	err := r.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis watch cart: %w", err)
	}

	return saved, nil
}

// Delete removes a cart from Redis by session ID. Deleting a missing cart is
// not an error.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
