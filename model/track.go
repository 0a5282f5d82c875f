package model

import "time"

// Track represents an audio track in the library.
type Track struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	FilePath      string    `json:"filePath"`            // Object path of the audio file, served via /media/
	CoverPath     string    `json:"coverPath,omitempty"` // Object path of the cover image, if any
	Duration      float64   `json:"duration,omitempty"`  // Duration in seconds
	TimesSelected int64     `json:"timesSelected"`       // Incremented once per mix the track lands in
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Tags          []string  `json:"tags"` // Tag names, lowercased
}
