package mix

import (
	"context"
	"fmt"

	"mixfm/logger"
	"mixfm/model"
)

// playlistNameMax matches the playlists.name column size.
const playlistNameMax = 255

// Materializer persists a mix plan as a playlist and updates popularity
// counters.
type Materializer struct {
	tracks    TrackStore
	playlists PlaylistStore
	cache     StatsCache
}

// NewMaterializer creates a materializer. cache may be nil.
func NewMaterializer(tracks TrackStore, playlists PlaylistStore, cache StatsCache) *Materializer {
	return &Materializer{tracks: tracks, playlists: playlists, cache: cache}
}

// Materialize resolves each plan item against the track store, persists the
// playlist with the resolved items, and applies one bulk selection-counter
// increment for the distinct resolved tracks. Items referencing unknown
// tracks are skipped, so a plan with dangling ids degrades to a shorter
// playlist rather than an error.
func (m *Materializer) Materialize(ctx context.Context, prompt string, items []PlanItem) (*model.Playlist, error) {
	playlist := &model.Playlist{
		Name:   mixName(prompt),
		Prompt: prompt,
		Items:  make([]model.PlaylistItem, 0, len(items)),
	}

	selected := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, item := range items {
		track, err := m.tracks.GetTrackByID(ctx, item.TrackID)
		if err != nil {
			logger.Warn("Skipping unresolvable plan item",
				logger.Int64("trackId", item.TrackID),
				logger.ErrorField(err))
			continue
		}
		if track == nil {
			logger.Debug("Skipping plan item for unknown track", logger.Int64("trackId", item.TrackID))
			continue
		}

		playlist.Items = append(playlist.Items, model.PlaylistItem{
			TrackID: track.ID,
			Order:   item.Order,
			Weight:  item.Weight,
			Track:   track,
		})
		if !seen[track.ID] {
			seen[track.ID] = true
			selected = append(selected, track.ID)
		}
	}

	if err := m.playlists.CreatePlaylist(ctx, playlist); err != nil {
		return nil, fmt.Errorf("failed to persist playlist: %w", err)
	}

	if len(selected) > 0 {
		if err := m.tracks.BulkIncrementSelected(ctx, selected); err != nil {
			return nil, fmt.Errorf("failed to update selection counters: %w", err)
		}
	}

	if m.cache != nil {
		if err := m.cache.InvalidateTopTracks(ctx); err != nil {
			logger.Warn("Top tracks cache invalidation failed", logger.ErrorField(err))
		}
	}

	return playlist, nil
}

func mixName(prompt string) string {
	name := "Mix: " + prompt
	if runes := []rune(name); len(runes) > playlistNameMax {
		name = string(runes[:playlistNameMax])
	}
	return name
}
