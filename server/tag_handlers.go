package server

import (
	"encoding/json"
	"net/http"

	"mixfm/logger"
)

// maxTagResults caps the tag listing response.
const maxTagResults = 50

// GetTagsHandler lists up to 50 tag names, optionally substring-filtered
// with ?q=.
func (h *APIHandler) GetTagsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	names, err := h.tagRepo.SearchNames(r.Context(), q, maxTagResults)
	if err != nil {
		logger.Error("Failed to search tags", logger.String("q", q), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}

	respondJSON(w, http.StatusOK, names)
}

// SuggestTagsHandler suggests tags for a free-form prompt. An empty prompt
// yields an empty array, not an error.
func (h *APIHandler) SuggestTagsHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
		Q      string `json:"q"`
	}
	// A malformed body is treated as an empty prompt.
	json.NewDecoder(r.Body).Decode(&req)

	prompt := req.Prompt
	if prompt == "" {
		prompt = req.Q
	}

	suggestions, err := h.suggester.Suggest(r.Context(), prompt)
	if err != nil {
		logger.Error("Tag suggestion failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to suggest tags")
		return
	}

	respondJSON(w, http.StatusOK, suggestions)
}
