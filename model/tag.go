package model

// Tag is a unique, lowercased label attached to tracks.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
