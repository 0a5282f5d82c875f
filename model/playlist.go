package model

import "time"

// Playlist is a generated mix: the original prompt plus an ordered set of items.
type Playlist struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255" json:"name"`
	Prompt    string         `gorm:"size:512" json:"prompt"`
	CreatedAt time.Time      `json:"createdAt"`
	Items     []PlaylistItem `gorm:"foreignKey:PlaylistID" json:"items"`
}

// PlaylistItem places one track in a playlist. Order defines the playback
// sequence and is not required to be contiguous; weight is a relative
// emphasis score defaulting to 1.0.
type PlaylistItem struct {
	ID         int64   `gorm:"primaryKey" json:"-"`
	PlaylistID int64   `gorm:"index" json:"-"`
	TrackID    int64   `json:"trackId"`
	Order      int     `gorm:"column:sort_order" json:"order"`
	Weight     float64 `gorm:"default:1" json:"weight"`
	Track      *Track  `gorm:"-" json:"track,omitempty"`
}
