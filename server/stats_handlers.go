package server

import (
	"net/http"

	"mixfm/logger"
)

// maxTopTracks caps the top-tracks listing.
const maxTopTracks = 10

// TopTracksHandler lists the most-selected tracks, served from cache when
// fresh.
func (h *APIHandler) TopTracksHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, ok := h.statsCache.GetTopTracks(ctx); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	tracks, err := h.trackRepo.TopTracks(ctx, maxTopTracks)
	if err != nil {
		logger.Error("Failed to load top tracks", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load top tracks")
		return
	}
	if err := h.attachTags(ctx, tracks); err != nil {
		logger.Error("Failed to load track tags", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load top tracks")
		return
	}

	h.statsCache.SetTopTracks(ctx, tracks)
	respondJSON(w, http.StatusOK, tracks)
}
