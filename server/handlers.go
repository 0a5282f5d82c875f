package server

import (
	"context"
	"encoding/json"
	"net/http"

	"mixfm/cache"
	"mixfm/config"
	"mixfm/core/mix"
	"mixfm/core/tags"
	"mixfm/logger"
	"mixfm/model"
	"mixfm/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	trackRepo    repository.TrackRepository
	tagRepo      repository.TagRepository
	playlistRepo repository.PlaylistRepository
	planner      *mix.Planner
	materializer *mix.Materializer
	suggester    *tags.Suggester
	statsCache   *cache.TopTracksCache
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	trackRepo repository.TrackRepository,
	tagRepo repository.TagRepository,
	playlistRepo repository.PlaylistRepository,
	planner *mix.Planner,
	materializer *mix.Materializer,
	suggester *tags.Suggester,
	statsCache *cache.TopTracksCache,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		trackRepo:    trackRepo,
		tagRepo:      tagRepo,
		playlistRepo: playlistRepo,
		planner:      planner,
		materializer: materializer,
		suggester:    suggester,
		statsCache:   statsCache,
		cfg:          cfg,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Warn("Failed to encode response", logger.ErrorField(err))
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// attachTags fills in the tag names for each track in one query.
func (h *APIHandler) attachTags(ctx context.Context, tracks []*model.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	byTrack, err := h.tagRepo.TagsForTracks(ctx, ids)
	if err != nil {
		return err
	}

	for _, t := range tracks {
		if names, ok := byTrack[t.ID]; ok {
			t.Tags = names
		} else {
			t.Tags = []string{}
		}
	}
	return nil
}
