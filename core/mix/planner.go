package mix

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"mixfm/core/llm"
	"mixfm/logger"
	"mixfm/model"
)

const (
	// fallbackMixSize caps the randomized fallback selection.
	fallbackMixSize = 5

	// llmPlanMaxTokens bounds the completion length for a plan request.
	llmPlanMaxTokens = 500
)

const planSystemPrompt = "You are a DJ assistant that selects 3-6 tracks from available tracks and returns a JSON list of objects" +
	" with fields {\"id\": <track id>, \"order\": <int>, \"weight\": <float>}." +
	" Only output valid JSON (an array)."

// PlanItem is one selection in a mix plan before persistence.
type PlanItem struct {
	TrackID int64   `json:"id"`
	Order   int     `json:"order"`
	Weight  float64 `json:"weight"`
}

// Planner turns a free-text prompt into an ordered mix plan. Candidate
// tracks are narrowed by exact tag-name match on the prompt's tokens; the
// ordering comes from the configured model when possible and from random
// selection otherwise. A model failure never fails the plan.
type Planner struct {
	tracks TrackStore
	tags   TagStore
	llm    llm.Client
}

// NewPlanner creates a planner. client may be nil when no model is configured.
func NewPlanner(tracks TrackStore, tags TagStore, client llm.Client) *Planner {
	return &Planner{tracks: tracks, tags: tags, llm: client}
}

// Plan produces the ordered (track, order, weight) triples for a prompt.
// Returns ErrInvalidPrompt for a blank prompt and ErrNoCandidates when the
// store holds no selectable tracks.
func (p *Planner) Plan(ctx context.Context, prompt string) ([]PlanItem, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrInvalidPrompt
	}

	candidates, err := p.selectCandidates(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if items := p.planWithLLM(ctx, prompt, candidates); len(items) > 0 {
		return items, nil
	}
	return fallbackPlan(candidates), nil
}

// selectCandidates narrows the track set by tag match. Tokens that exactly
// match a tag name select the union of tracks carrying any matched tag; a
// prompt matching no tags selects every track.
func (p *Planner) selectCandidates(ctx context.Context, prompt string) ([]*model.Track, error) {
	tokens := Tokenize(prompt)

	matched, err := p.tags.FindByNames(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to match prompt tokens against tags: %w", err)
	}

	var candidates []*model.Track
	if len(matched) > 0 {
		tagIDs := make([]int64, len(matched))
		for i, tag := range matched {
			tagIDs[i] = tag.ID
		}
		candidates, err = p.tracks.TracksByTagIDs(ctx, tagIDs)
	} else {
		candidates, err = p.tracks.AllTracks(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate tracks: %w", err)
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	logger.Debug("Selected mix candidates",
		logger.Int("matchedTags", len(matched)),
		logger.Int("candidates", len(candidates)))
	return candidates, nil
}

// planWithLLM makes a single completion attempt and decodes the result.
// Any failure (client absent, request error, unparseable output) yields
// nil so the caller falls back to random selection.
func (p *Planner) planWithLLM(ctx context.Context, prompt string, candidates []*model.Track) []PlanItem {
	if p.llm == nil {
		return nil
	}

	type trackContext struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	listing := make([]trackContext, len(candidates))
	for i, t := range candidates {
		listing[i] = trackContext{ID: t.ID, Title: t.Title}
	}
	payload, err := json.Marshal(listing)
	if err != nil {
		return nil
	}

	user := fmt.Sprintf("Prompt: %s\nAvailable tracks: %s", prompt, payload)
	raw, err := p.llm.Complete(ctx, planSystemPrompt, user, llmPlanMaxTokens)
	if err != nil {
		logger.Warn("Mix completion failed, using random fallback", logger.ErrorField(err))
		return nil
	}

	arr, ok := ExtractArray(raw)
	if !ok {
		logger.Warn("No JSON array in mix completion, using random fallback")
		return nil
	}
	return decodePlanItems(arr)
}

// llmPlanItem mirrors PlanItem with optional fields: order defaults to 0 and
// weight to 1.0 when the model omits them.
type llmPlanItem struct {
	ID     int64    `json:"id"`
	Order  *int     `json:"order"`
	Weight *float64 `json:"weight"`
}

func decodePlanItems(raw json.RawMessage) []PlanItem {
	var decoded []llmPlanItem
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logger.Warn("Mix completion array has unexpected shape, using random fallback", logger.ErrorField(err))
		return nil
	}

	items := make([]PlanItem, 0, len(decoded))
	for _, d := range decoded {
		item := PlanItem{TrackID: d.ID, Weight: 1.0}
		if d.Order != nil {
			item.Order = *d.Order
		}
		if d.Weight != nil {
			item.Weight = *d.Weight
		}
		items = append(items, item)
	}
	return items
}

// fallbackPlan samples up to fallbackMixSize tracks uniformly without
// replacement. Order follows the sampled sequence; each weight is uniform in
// [0.5, 1.0], rounded to two decimals.
func fallbackPlan(candidates []*model.Track) []PlanItem {
	n := len(candidates)
	if n > fallbackMixSize {
		n = fallbackMixSize
	}

	items := make([]PlanItem, 0, n)
	for i, idx := range rand.Perm(len(candidates))[:n] {
		weight := math.Round((0.5+rand.Float64()*0.5)*100) / 100
		items = append(items, PlanItem{
			TrackID: candidates[idx].ID,
			Order:   i,
			Weight:  weight,
		})
	}
	return items
}
