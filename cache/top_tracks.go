package cache

import (
	"context"
	"encoding/json"
	"time"

	"mixfm/logger"
	"mixfm/model"

	"github.com/go-redis/redis/v8"
)

const (
	topTracksKey = "top_tracks"
	topTracksTTL = 5 * time.Minute
)

// TopTracksCache caches the top-tracks listing in Redis. Every operation is
// best effort: failures are logged and reported to callers as cache misses.
type TopTracksCache struct {
	client *redis.Client
}

// NewTopTracksCache returns a cache bound to the global Redis client.
// Works with a nil client; all operations then no-op.
func NewTopTracksCache() *TopTracksCache {
	return &TopTracksCache{client: RedisClient}
}

// GetTopTracks returns the cached listing, or ok=false on miss or error.
func (c *TopTracksCache) GetTopTracks(ctx context.Context) ([]*model.Track, bool) {
	if c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, topTracksKey).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read top tracks cache", logger.ErrorField(err))
		}
		return nil, false
	}

	var tracks []*model.Track
	if err := json.Unmarshal([]byte(val), &tracks); err != nil {
		logger.Warn("Failed to decode top tracks cache entry", logger.ErrorField(err))
		return nil, false
	}
	return tracks, true
}

// SetTopTracks stores the listing with a 5 minute TTL.
func (c *TopTracksCache) SetTopTracks(ctx context.Context, tracks []*model.Track) {
	if c.client == nil {
		return
	}

	payload, err := json.Marshal(tracks)
	if err != nil {
		logger.Warn("Failed to encode top tracks for caching", logger.ErrorField(err))
		return
	}

	if err := c.client.Set(ctx, topTracksKey, payload, topTracksTTL).Err(); err != nil {
		logger.Warn("Failed to write top tracks cache", logger.ErrorField(err))
	}
}

// InvalidateTopTracks drops the cached listing. Called after mix generation
// and track deletion, both of which change the popularity ordering.
func (c *TopTracksCache) InvalidateTopTracks(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, topTracksKey).Err()
}
