package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mixfm/db"
	"mixfm/model"
)

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	AllNames(ctx context.Context) ([]string, error)
	SearchNames(ctx context.Context, q string, limit int) ([]string, error)
	GetOrCreate(ctx context.Context, name string) (*model.Tag, error)
	FindByNames(ctx context.Context, names []string) ([]*model.Tag, error)
	AttachToTrack(ctx context.Context, trackID int64, tagIDs []int64) error
	TagsForTracks(ctx context.Context, trackIDs []int64) (map[int64][]string, error)
}

// mysqlTagRepository implements TagRepository for MySQL.
type mysqlTagRepository struct {
	DB *sql.DB
}

// NewMySQLTagRepository creates a new instance of mysqlTagRepository.
func NewMySQLTagRepository() TagRepository {
	return &mysqlTagRepository{DB: db.DB}
}

// AllNames retrieves every tag name, ordered by name.
func (r *mysqlTagRepository) AllNames(ctx context.Context) ([]string, error) {
	return r.queryNames(ctx, `SELECT name FROM tags ORDER BY name`)
}

// SearchNames retrieves up to limit tag names containing the substring q.
func (r *mysqlTagRepository) SearchNames(ctx context.Context, q string, limit int) ([]string, error) {
	if q == "" {
		return r.queryNames(ctx, `SELECT name FROM tags ORDER BY name LIMIT ?`, limit)
	}
	return r.queryNames(ctx, `SELECT name FROM tags WHERE name LIKE ? ORDER BY name LIMIT ?`,
		"%"+strings.ToLower(q)+"%", limit)
}

func (r *mysqlTagRepository) queryNames(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return names, nil
}

// GetOrCreate returns the tag with the given name, creating it on first use.
// Names are case-folded, so "Calm" and "calm" resolve to the same tag.
func (r *mysqlTagRepository) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, fmt.Errorf("tag name is empty")
	}

	// Single statement keeps this race-free under concurrent uploads.
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO tags (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create tag %q: %w", name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag ID for %q: %w", name, err)
	}
	return &model.Tag{ID: id, Name: name}, nil
}

// FindByNames retrieves the tags whose names exactly match any of the given
// names (case-folded). Unknown names are simply absent from the result.
func (r *mysqlTagRepository) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	if len(names) == 0 {
		return []*model.Tag{}, nil
	}

	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = strings.ToLower(n)
	}

	query := fmt.Sprintf(`SELECT id, name FROM tags WHERE name IN (%s)`, placeholders(len(names)))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags by names: %w", err)
	}
	defer rows.Close()

	tags := make([]*model.Tag, 0)
	for rows.Next() {
		tag := &model.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return tags, nil
}

// AttachToTrack associates the given tags with a track. Existing
// associations are left untouched.
func (r *mysqlTagRepository) AttachToTrack(ctx context.Context, trackID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(`INSERT IGNORE INTO track_tags (track_id, tag_id) VALUES `)
	args := make([]interface{}, 0, len(tagIDs)*2)
	for i, tagID := range tagIDs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?)")
		args = append(args, trackID, tagID)
	}

	if _, err := r.DB.ExecContext(ctx, b.String(), args...); err != nil {
		return fmt.Errorf("failed to attach tags to track %d: %w", trackID, err)
	}
	return nil
}

// TagsForTracks retrieves the tag names for each of the given tracks.
func (r *mysqlTagRepository) TagsForTracks(ctx context.Context, trackIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string)
	if len(trackIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT tt.track_id, g.name
		FROM track_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.track_id IN (%s)
		ORDER BY g.name`, placeholders(len(trackIDs)))

	rows, err := r.DB.QueryContext(ctx, query, int64Args(trackIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var trackID int64
		var name string
		if err := rows.Scan(&trackID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan track tag: %w", err)
		}
		result[trackID] = append(result[trackID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return result, nil
}
