package server

import (
	"net/http"
	"strconv"

	"mixfm/core/tags"
	"mixfm/logger"
	"mixfm/model"
	"mixfm/storage"

	"github.com/gorilla/mux"
)

// maxUploadSize bounds a single upload request body.
const maxUploadSize = 100 << 20 // 100MB

// UploadTrackHandler handles audio file uploads and metadata.
// Expected multipart form fields:
// - file: the audio file (required)
// - cover: cover art image (optional)
// - title: track title (optional, defaults to the file name)
// - tags: tag names as repeated values, a JSON array, or comma-separated (optional)
// - duration: duration in seconds (optional)
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	ctx := r.Context()
	filePath, err := storage.UploadAudio(ctx, file, header.Size, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Error("Audio upload to storage failed", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to store audio file")
		return
	}

	var coverPath string
	if cover, coverHeader, err := r.FormFile("cover"); err == nil {
		defer cover.Close()
		coverPath, err = storage.UploadCover(ctx, cover, coverHeader.Size, coverHeader.Filename, coverHeader.Header.Get("Content-Type"))
		if err != nil {
			logger.Warn("Cover upload to storage failed", logger.ErrorField(err))
			coverPath = ""
		}
	}

	var duration float64
	if raw := r.FormValue("duration"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			duration = parsed
		}
	}

	track := &model.Track{
		Title:     title,
		FilePath:  filePath,
		CoverPath: coverPath,
		Duration:  duration,
		Tags:      []string{},
	}
	if _, err := h.trackRepo.CreateTrack(ctx, track); err != nil {
		logger.Error("Failed to create track", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to create track")
		return
	}

	// Tags are get-or-create: unknown names become new tags on the fly.
	tagNames := tags.ParseTagNames(r.MultipartForm.Value["tags"])
	tagIDs := make([]int64, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := h.tagRepo.GetOrCreate(ctx, name)
		if err != nil {
			logger.Error("Failed to get or create tag", logger.String("name", name), logger.ErrorField(err))
			respondError(w, http.StatusInternalServerError, "failed to create tags")
			return
		}
		tagIDs = append(tagIDs, tag.ID)
		track.Tags = append(track.Tags, tag.Name)
	}
	if err := h.tagRepo.AttachToTrack(ctx, track.ID, tagIDs); err != nil {
		logger.Error("Failed to attach tags", logger.Int64("trackId", track.ID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to attach tags")
		return
	}

	logger.Info("Track uploaded",
		logger.Int64("trackId", track.ID),
		logger.String("title", track.Title),
		logger.Int("tags", len(tagIDs)))
	respondJSON(w, http.StatusCreated, track)
}

// GetTracksHandler lists all tracks, newest first.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tracks, err := h.trackRepo.AllTracks(ctx)
	if err != nil {
		logger.Error("Failed to list tracks", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}
	if err := h.attachTags(ctx, tracks); err != nil {
		logger.Error("Failed to load track tags", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to list tracks")
		return
	}

	respondJSON(w, http.StatusOK, tracks)
}

// DeleteTrackHandler deletes a track and its stored files.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	ctx := r.Context()
	track, err := h.trackRepo.GetTrackByID(ctx, id)
	if err != nil {
		logger.Error("Failed to load track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete track")
		return
	}
	if track == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Stored objects are removed best effort; a stale object is preferable
	// to a track row that can't be deleted.
	if err := storage.DeleteObject(ctx, track.FilePath); err != nil {
		logger.Warn("Failed to remove audio object", logger.String("path", track.FilePath), logger.ErrorField(err))
	}
	if track.CoverPath != "" {
		if err := storage.DeleteObject(ctx, track.CoverPath); err != nil {
			logger.Warn("Failed to remove cover object", logger.String("path", track.CoverPath), logger.ErrorField(err))
		}
	}

	if err := h.trackRepo.DeleteTrack(ctx, id); err != nil {
		logger.Error("Failed to delete track", logger.Int64("trackId", id), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "failed to delete track")
		return
	}

	if err := h.statsCache.InvalidateTopTracks(ctx); err != nil {
		logger.Warn("Top tracks cache invalidation failed", logger.ErrorField(err))
	}

	w.WriteHeader(http.StatusNoContent)
}
