package tags

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mixfm/core/llm"
	"mixfm/core/mix"
	"mixfm/logger"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// maxFuzzyMatches caps the matches contributed per prompt token.
	maxFuzzyMatches = 5

	// fuzzyCutoff is the minimum similarity ratio for a match.
	fuzzyCutoff = 0.6

	// llmSuggestMaxTokens bounds the keyword-extraction completion.
	llmSuggestMaxTokens = 120
)

const suggestSystemPrompt = "Extract a short list (3-6) of tag keywords from the user's prompt. Return only a JSON array of strings."

// TagStore lists the known tag names.
type TagStore interface {
	AllNames(ctx context.Context) ([]string, error)
}

// Suggester proposes tags for a free-text prompt by fuzzy-matching its
// tokens against existing tag names, optionally augmented by model keyword
// extraction. Model failures leave the fuzzy result untouched.
type Suggester struct {
	tags TagStore
	llm  llm.Client
}

// NewSuggester creates a suggester. client may be nil when no model is
// configured.
func NewSuggester(store TagStore, client llm.Client) *Suggester {
	return &Suggester{tags: store, llm: client}
}

// Suggest returns deduplicated tag suggestions for a prompt, sorted for
// stable output. An empty prompt returns an empty set without touching the
// tag store or the model.
func (s *Suggester) Suggest(ctx context.Context, prompt string) ([]string, error) {
	prompt = strings.ToLower(strings.TrimSpace(prompt))
	if prompt == "" {
		return []string{}, nil
	}

	names, err := s.tags.AllNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag names: %w", err)
	}

	suggestions := make(map[string]struct{})
	for _, token := range mix.Tokenize(prompt) {
		for _, match := range closeMatches(token, names, maxFuzzyMatches, fuzzyCutoff) {
			suggestions[match] = struct{}{}
		}
	}

	s.augmentWithLLM(ctx, prompt, suggestions)

	out := make([]string, 0, len(suggestions))
	for name := range suggestions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// augmentWithLLM adds model-extracted keywords to the suggestion set. Any
// failure is logged and swallowed.
func (s *Suggester) augmentWithLLM(ctx context.Context, prompt string, suggestions map[string]struct{}) {
	if s.llm == nil {
		return
	}

	raw, err := s.llm.Complete(ctx, suggestSystemPrompt, prompt, llmSuggestMaxTokens)
	if err != nil {
		logger.Warn("Tag keyword extraction failed", logger.ErrorField(err))
		return
	}

	arr, ok := mix.ExtractArray(raw)
	if !ok {
		logger.Warn("No JSON array in tag keyword response")
		return
	}

	var values []interface{}
	if err := json.Unmarshal(arr, &values); err != nil {
		return
	}
	for _, v := range values {
		if keyword, ok := v.(string); ok {
			if keyword = strings.TrimSpace(strings.ToLower(keyword)); keyword != "" {
				suggestions[keyword] = struct{}{}
			}
		}
	}
}

// closeMatches returns up to n names whose similarity ratio to word meets
// the cutoff, best matches first.
func closeMatches(word string, names []string, n int, cutoff float64) []string {
	type scored struct {
		name  string
		ratio float64
	}

	var hits []scored
	for _, name := range names {
		if r := similarityRatio(word, name); r >= cutoff {
			hits = append(hits, scored{name: name, ratio: r})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ratio > hits[j].ratio })
	if len(hits) > n {
		hits = hits[:n]
	}

	matches := make([]string, len(hits))
	for i, h := range hits {
		matches[i] = h.name
	}
	return matches
}

// similarityRatio is the classic sequence-matcher ratio over case-folded
// runes: 2 * matches / (len(a) + len(b)).
func similarityRatio(a, b string) float64 {
	matcher := difflib.NewMatcher(splitRunes(strings.ToLower(a)), splitRunes(strings.ToLower(b)))
	return matcher.Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
