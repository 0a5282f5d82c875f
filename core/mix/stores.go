package mix

import (
	"context"

	"mixfm/model"
)

// TrackStore is the track persistence the pipeline consumes.
type TrackStore interface {
	AllTracks(ctx context.Context) ([]*model.Track, error)
	TracksByTagIDs(ctx context.Context, tagIDs []int64) ([]*model.Track, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	BulkIncrementSelected(ctx context.Context, ids []int64) error
}

// TagStore resolves prompt tokens against known tag names.
type TagStore interface {
	FindByNames(ctx context.Context, names []string) ([]*model.Tag, error)
}

// PlaylistStore persists a materialized plan.
type PlaylistStore interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
}

// StatsCache invalidates aggregate popularity data after a mix is saved.
// Implementations are best effort; errors are logged and dropped.
type StatsCache interface {
	InvalidateTopTracks(ctx context.Context) error
}
