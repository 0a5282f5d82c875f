package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mixfm/db"
	"mixfm/model"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.Track) (int64, error)
	GetTrackByID(ctx context.Context, id int64) (*model.Track, error)
	AllTracks(ctx context.Context) ([]*model.Track, error)
	TracksByTagIDs(ctx context.Context, tagIDs []int64) ([]*model.Track, error)
	DeleteTrack(ctx context.Context, id int64) error
	BulkIncrementSelected(ctx context.Context, ids []int64) error
	TopTracks(ctx context.Context, limit int) ([]*model.Track, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	DB *sql.DB
}

// NewMySQLTrackRepository creates a new instance of mysqlTrackRepository.
func NewMySQLTrackRepository() TrackRepository {
	return &mysqlTrackRepository{DB: db.DB}
}

const trackColumns = `id, title, file_path, cover_path, duration, times_selected, created_at, updated_at`

// CreateTrack adds a new track to the database.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	query := `INSERT INTO tracks (title, file_path, cover_path, duration) VALUES (?, ?, ?, ?)`

	var cover sql.NullString
	if track.CoverPath != "" {
		cover = sql.NullString{String: track.CoverPath, Valid: true}
	}
	var duration sql.NullFloat64
	if track.Duration > 0 {
		duration = sql.NullFloat64{Float64: track.Duration, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, track.Title, track.FilePath, cover, duration)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateTrack: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateTrack: %w", err)
	}
	track.ID = id
	return id, nil
}

// GetTrackByID retrieves a track by its ID. Returns (nil, nil) when absent.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`
	row := r.DB.QueryRowContext(ctx, query, id)

	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Track not found
		}
		return nil, fmt.Errorf("failed to scan track by ID %d: %w", id, err)
	}
	return track, nil
}

// AllTracks retrieves all tracks, newest first.
func (r *mysqlTrackRepository) AllTracks(ctx context.Context) ([]*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

// TracksByTagIDs retrieves the distinct set of tracks carrying at least one
// of the given tags, newest first.
func (r *mysqlTrackRepository) TracksByTagIDs(ctx context.Context, tagIDs []int64) ([]*model.Track, error) {
	if len(tagIDs) == 0 {
		return []*model.Track{}, nil
	}

	query := fmt.Sprintf(`SELECT DISTINCT t.id, t.title, t.file_path, t.cover_path, t.duration, t.times_selected, t.created_at, t.updated_at
		FROM tracks t
		JOIN track_tags tt ON tt.track_id = t.id
		WHERE tt.tag_id IN (%s)
		ORDER BY t.created_at DESC`, placeholders(len(tagIDs)))

	rows, err := r.DB.QueryContext(ctx, query, int64Args(tagIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks by tags: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

// DeleteTrack removes a track; track_tags rows cascade.
func (r *mysqlTrackRepository) DeleteTrack(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete track %d: %w", id, err)
	}
	return nil
}

// BulkIncrementSelected adds one selection to each of the given tracks in a
// single statement, so concurrent mix generations cannot lose updates.
func (r *mysqlTrackRepository) BulkIncrementSelected(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE tracks SET times_selected = times_selected + 1 WHERE id IN (%s)`, placeholders(len(ids)))
	if _, err := r.DB.ExecContext(ctx, query, int64Args(ids)...); err != nil {
		return fmt.Errorf("failed to increment selection counters: %w", err)
	}
	return nil
}

// TopTracks retrieves up to limit tracks by selection count, descending.
func (r *mysqlTrackRepository) TopTracks(ctx context.Context, limit int) ([]*model.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY times_selected DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top tracks: %w", err)
	}
	defer rows.Close()

	return collectTracks(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrack(s rowScanner) (*model.Track, error) {
	track := &model.Track{}
	var cover sql.NullString
	var duration sql.NullFloat64

	err := s.Scan(&track.ID, &track.Title, &track.FilePath, &cover, &duration,
		&track.TimesSelected, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		return nil, err
	}

	track.CoverPath = cover.String
	track.Duration = duration.Float64
	track.Tags = []string{}
	return track, nil
}

func collectTracks(rows *sql.Rows) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return tracks, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
