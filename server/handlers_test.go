package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mixfm/cache"
	"mixfm/config"
	"mixfm/core/mix"
	"mixfm/core/tags"
	"mixfm/model"

	"github.com/gorilla/mux"
)

// memTrackRepo is an in-memory TrackRepository for handler tests.
type memTrackRepo struct {
	tracks []*model.Track
	nextID int64
}

func (r *memTrackRepo) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	r.nextID++
	track.ID = r.nextID
	r.tracks = append(r.tracks, track)
	return track.ID, nil
}

func (r *memTrackRepo) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	for _, t := range r.tracks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTrackRepo) AllTracks(ctx context.Context) ([]*model.Track, error) {
	return r.tracks, nil
}

func (r *memTrackRepo) TracksByTagIDs(ctx context.Context, tagIDs []int64) ([]*model.Track, error) {
	return r.tracks, nil
}

func (r *memTrackRepo) DeleteTrack(ctx context.Context, id int64) error {
	for i, t := range r.tracks {
		if t.ID == id {
			r.tracks = append(r.tracks[:i], r.tracks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memTrackRepo) BulkIncrementSelected(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		for _, t := range r.tracks {
			if t.ID == id {
				t.TimesSelected++
			}
		}
	}
	return nil
}

func (r *memTrackRepo) TopTracks(ctx context.Context, limit int) ([]*model.Track, error) {
	if len(r.tracks) > limit {
		return r.tracks[:limit], nil
	}
	return r.tracks, nil
}

// memTagRepo is an in-memory TagRepository for handler tests.
type memTagRepo struct {
	tags     []*model.Tag
	attached map[int64][]int64
	nextID   int64
}

func (r *memTagRepo) AllNames(ctx context.Context) ([]string, error) {
	names := make([]string, len(r.tags))
	for i, tag := range r.tags {
		names[i] = tag.Name
	}
	return names, nil
}

func (r *memTagRepo) SearchNames(ctx context.Context, q string, limit int) ([]string, error) {
	var out []string
	for _, tag := range r.tags {
		if q == "" || strings.Contains(tag.Name, q) {
			out = append(out, tag.Name)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memTagRepo) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	for _, tag := range r.tags {
		if tag.Name == name {
			return tag, nil
		}
	}
	r.nextID++
	tag := &model.Tag{ID: r.nextID, Name: name}
	r.tags = append(r.tags, tag)
	return tag, nil
}

func (r *memTagRepo) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	var out []*model.Tag
	for _, tag := range r.tags {
		for _, name := range names {
			if tag.Name == name {
				out = append(out, tag)
				break
			}
		}
	}
	return out, nil
}

func (r *memTagRepo) AttachToTrack(ctx context.Context, trackID int64, tagIDs []int64) error {
	if r.attached == nil {
		r.attached = make(map[int64][]int64)
	}
	r.attached[trackID] = append(r.attached[trackID], tagIDs...)
	return nil
}

func (r *memTagRepo) TagsForTracks(ctx context.Context, trackIDs []int64) (map[int64][]string, error) {
	return map[int64][]string{}, nil
}

// memPlaylistRepo is an in-memory PlaylistRepository for handler tests.
type memPlaylistRepo struct {
	playlists []*model.Playlist
	nextID    int64
}

func (r *memPlaylistRepo) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	r.nextID++
	playlist.ID = r.nextID
	r.playlists = append(r.playlists, playlist)
	return nil
}

func (r *memPlaylistRepo) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	for _, p := range r.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func newTestHandler(trackRepo *memTrackRepo, tagRepo *memTagRepo, playlistRepo *memPlaylistRepo) *APIHandler {
	statsCache := cache.NewTopTracksCache()
	planner := mix.NewPlanner(trackRepo, tagRepo, nil)
	materializer := mix.NewMaterializer(trackRepo, playlistRepo, statsCache)
	suggester := tags.NewSuggester(tagRepo, nil)
	return NewAPIHandler(trackRepo, tagRepo, playlistRepo, planner, materializer, suggester, statsCache, &config.Config{})
}

func TestGenerateMixHandler(t *testing.T) {
	trackRepo := &memTrackRepo{tracks: []*model.Track{
		{ID: 1, Title: "Rain"},
		{ID: 2, Title: "Waves"},
	}, nextID: 2}
	playlistRepo := &memPlaylistRepo{}
	h := newTestHandler(trackRepo, &memTagRepo{}, playlistRepo)

	body := bytes.NewBufferString(`{"prompt": "calm evening"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-mix/", body)
	rec := httptest.NewRecorder()
	h.GenerateMixHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var playlist model.Playlist
	if err := json.Unmarshal(rec.Body.Bytes(), &playlist); err != nil {
		t.Fatalf("response is not a playlist: %v", err)
	}
	if playlist.Name != "Mix: calm evening" {
		t.Errorf("playlist name = %q", playlist.Name)
	}
	if len(playlist.Items) == 0 {
		t.Error("playlist has no items")
	}
	if len(playlistRepo.playlists) != 1 {
		t.Errorf("persisted %d playlists, want 1", len(playlistRepo.playlists))
	}
}

func TestGenerateMixHandlerValidation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		tracks    []*model.Track
		wantCode  int
		wantError string
	}{
		{
			name:      "missing prompt",
			body:      `{}`,
			tracks:    []*model.Track{{ID: 1}},
			wantCode:  http.StatusBadRequest,
			wantError: "prompt is required",
		},
		{
			name:      "malformed body",
			body:      `{{{`,
			tracks:    []*model.Track{{ID: 1}},
			wantCode:  http.StatusBadRequest,
			wantError: "prompt is required",
		},
		{
			name:      "empty library",
			body:      `{"prompt": "anything"}`,
			tracks:    nil,
			wantCode:  http.StatusBadRequest,
			wantError: "no tracks uploaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&memTrackRepo{tracks: tt.tracks}, &memTagRepo{}, &memPlaylistRepo{})

			req := httptest.NewRequest(http.MethodPost, "/generate-mix/", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.GenerateMixHandler(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if resp["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", resp["error"], tt.wantError)
			}
		})
	}
}

func TestGetTagsHandler(t *testing.T) {
	tagRepo := &memTagRepo{tags: []*model.Tag{
		{ID: 1, Name: "chill"},
		{ID: 2, Name: "study"},
	}}
	h := newTestHandler(&memTrackRepo{}, tagRepo, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodGet, "/tags/?q=chi", nil)
	rec := httptest.NewRecorder()
	h.GetTagsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("response is not a string array: %v", err)
	}
	if len(names) != 1 || names[0] != "chill" {
		t.Errorf("names = %v, want [chill]", names)
	}
}

func TestSuggestTagsHandlerEmptyPrompt(t *testing.T) {
	h := newTestHandler(&memTrackRepo{}, &memTagRepo{}, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodPost, "/tags/suggest/", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	h.SuggestTagsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want an empty JSON array", got)
	}
}

func TestSuggestTagsHandler(t *testing.T) {
	tagRepo := &memTagRepo{tags: []*model.Tag{{ID: 1, Name: "chill"}}}
	h := newTestHandler(&memTrackRepo{}, tagRepo, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodPost, "/tags/suggest/", bytes.NewBufferString(`{"prompt": "chill vibes"}`))
	rec := httptest.NewRecorder()
	h.SuggestTagsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("response is not a string array: %v", err)
	}
	if len(names) != 1 || names[0] != "chill" {
		t.Errorf("names = %v, want [chill]", names)
	}
}

func TestGetTracksHandler(t *testing.T) {
	trackRepo := &memTrackRepo{tracks: []*model.Track{
		{ID: 1, Title: "One", Tags: []string{}},
		{ID: 2, Title: "Two", Tags: []string{}},
	}}
	h := newTestHandler(trackRepo, &memTagRepo{}, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodGet, "/tracks/", nil)
	rec := httptest.NewRecorder()
	h.GetTracksHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tracks []*model.Track
	if err := json.Unmarshal(rec.Body.Bytes(), &tracks); err != nil {
		t.Fatalf("response is not a track array: %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("got %d tracks, want 2", len(tracks))
	}
}

func TestGetPlaylistHandlerNotFound(t *testing.T) {
	h := newTestHandler(&memTrackRepo{}, &memTagRepo{}, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodGet, "/playlists/42/", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "42"})
	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTopTracksHandler(t *testing.T) {
	trackRepo := &memTrackRepo{tracks: []*model.Track{
		{ID: 1, Title: "Hot", TimesSelected: 9, Tags: []string{}},
	}}
	h := newTestHandler(trackRepo, &memTagRepo{}, &memPlaylistRepo{})

	req := httptest.NewRequest(http.MethodGet, "/stats/top-tracks/", nil)
	rec := httptest.NewRecorder()
	h.TopTracksHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var tracks []*model.Track
	if err := json.Unmarshal(rec.Body.Bytes(), &tracks); err != nil {
		t.Fatalf("response is not a track array: %v", err)
	}
	if len(tracks) != 1 || tracks[0].TimesSelected != 9 {
		t.Errorf("tracks = %+v", tracks)
	}
}
