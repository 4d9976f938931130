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

const recentKeyPrefix = "gearshed:recent:"

func recentKey(sessionID string) string {
	return recentKeyPrefix + sessionID
}

// RecentlyViewedRepository implements repository.RecentlyViewedRepository
// using Redis. The history is small and bounded, so it is stored as a single
// JSON document like the cart.
type RecentlyViewedRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRecentlyViewedRepository creates a new Redis-backed history repository.
func NewRecentlyViewedRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RecentlyViewedRepository {
	return &RecentlyViewedRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves the browsing history by session ID. Corrupt or invalid
// snapshots are treated as absent.
func (r *RecentlyViewedRepository) Get(ctx context.Context, sessionID string) (*domain.RecentlyViewed, error) {
	data, err := r.client.Get(ctx, recentKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("recently viewed", sessionID)
		}
		return nil, fmt.Errorf("redis get recently viewed: %w", err)
	}

	var recent domain.RecentlyViewed
	if err := json.Unmarshal(data, &recent); err != nil {
		r.logger.WarnContext(ctx, "discarding corrupt recently viewed snapshot",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("recently viewed", sessionID)
	}
	if !recent.Valid() {
		r.logger.WarnContext(ctx, "discarding invalid recently viewed snapshot",
			slog.String("session_id", sessionID),
		)
		return nil, apperrors.NotFound("recently viewed", sessionID)
	}
	if recent.Items == nil {
		recent.Items = []domain.ProductSummary{}
	}

	return &recent, nil
}

// Save persists the history to Redis with the configured TTL.
func (r *RecentlyViewedRepository) Save(ctx context.Context, recent *domain.RecentlyViewed) error {
	data, err := json.Marshal(recent)
	if err != nil {
		return fmt.Errorf("marshal recently viewed: %w", err)
	}

	if err := r.client.Set(ctx, recentKey(recent.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set recently viewed: %w", err)
	}

	return nil
}

// Delete removes the history from Redis by session ID.
func (r *RecentlyViewedRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, recentKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del recently viewed: %w", err)
	}

	return nil
}
