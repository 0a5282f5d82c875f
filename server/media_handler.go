package server

import (
	"io"
	"net/http"
	"path"
	"strings"

	"mixfm/logger"
	"mixfm/storage"
)

// MediaHandler streams a stored object (audio or cover art) back to the
// client. The object key is everything after the /media/ prefix.
func (h *APIHandler) MediaHandler(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/media/")
	if key == "" || strings.Contains(key, "..") {
		respondError(w, http.StatusBadRequest, "invalid media path")
		return
	}

	obj, err := storage.GetObject(r.Context(), key)
	if err != nil {
		logger.Warn("Media object fetch failed", logger.String("key", key), logger.ErrorField(err))
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	contentType := stat.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = guessContentType(key)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")

	if _, err := io.Copy(w, obj); err != nil {
		logger.Warn("Media stream interrupted", logger.String("key", key), logger.ErrorField(err))
	}
}

func guessContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
