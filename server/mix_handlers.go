package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"mixfm/core/mix"
	"mixfm/logger"
)

// GenerateMixHandler generates a playlist from a free-text prompt.
// Responds 400 for a missing prompt or an empty track library; an LLM
// failure is not an error, the mix falls back to random selection.
func (h *APIHandler) GenerateMixHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	// A malformed body is treated as a missing prompt.
	json.NewDecoder(r.Body).Decode(&req)

	ctx := r.Context()
	items, err := h.planner.Plan(ctx, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, mix.ErrInvalidPrompt):
			respondError(w, http.StatusBadRequest, "prompt is required")
		case errors.Is(err, mix.ErrNoCandidates):
			respondError(w, http.StatusBadRequest, "no tracks uploaded")
		default:
			logger.Error("Mix planning failed", logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "failed to generate mix")
		}
		return
	}

	playlist, err := h.materializer.Materialize(ctx, req.Prompt, items)
	if err != nil {
		logger.Error("Mix materialization failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to generate mix")
		return
	}

	logger.Info("Mix generated",
		logger.Int64("playlistId", playlist.ID),
		logger.String("prompt", req.Prompt),
		logger.Int("items", len(playlist.Items)))
	respondJSON(w, http.StatusOK, playlist)
}
