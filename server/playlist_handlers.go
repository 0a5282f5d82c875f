package server

import (
	"net/http"
	"strconv"

	"mixfm/logger"

	"github.com/gorilla/mux"
)

// GetPlaylistHandler returns one generated playlist with its items in order.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	ctx := r.Context()
	playlist, err := h.playlistRepo.GetPlaylistByID(ctx, id)
	if err != nil {
		logger.Error("Failed to load playlist", logger.Int64("playlistId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}
	if playlist == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Item rows only carry track ids; resolve the tracks for the response.
	for i := range playlist.Items {
		track, err := h.trackRepo.GetTrackByID(ctx, playlist.Items[i].TrackID)
		if err != nil {
			logger.Warn("Failed to resolve playlist track",
				logger.Int64("trackId", playlist.Items[i].TrackID),
				logger.ErrorField(err))
			continue
		}
		playlist.Items[i].Track = track
	}

	respondJSON(w, http.StatusOK, playlist)
}
