package tags

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeTagStore struct {
	names  []string
	err    error
	called int
}

func (f *fakeTagStore) AllNames(ctx context.Context) ([]string, error) {
	f.called++
	return f.names, f.err
}

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSuggestEmptyPrompt(t *testing.T) {
	store := &fakeTagStore{err: errors.New("must not be called")}
	client := &fakeLLM{err: errors.New("must not be called")}
	s := NewSuggester(store, client)

	got, err := s.Suggest(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
	if store.called != 0 || client.calls != 0 {
		t.Errorf("empty prompt touched store (%d) or model (%d)", store.called, client.calls)
	}
}

func TestSuggestExactAndFuzzyMatches(t *testing.T) {
	store := &fakeTagStore{names: []string{"chill", "chillout", "focus", "jazz", "metal"}}
	s := NewSuggester(store, nil)

	got, err := s.Suggest(context.Background(), "Chill beats for deep focus")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}

	want := []string{"chill", "chillout", "focus"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggestNoMatches(t *testing.T) {
	store := &fakeTagStore{names: []string{"metal", "opera"}}
	s := NewSuggester(store, nil)

	got, err := s.Suggest(context.Background(), "quiet rainy afternoon")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no suggestions", got)
	}
}

func TestSuggestStoreError(t *testing.T) {
	store := &fakeTagStore{err: errors.New("db gone")}
	s := NewSuggester(store, nil)

	if _, err := s.Suggest(context.Background(), "anything"); err == nil {
		t.Fatal("expected an error when the tag store fails")
	}
}

func TestSuggestLLMAugments(t *testing.T) {
	store := &fakeTagStore{names: []string{"chill"}}
	client := &fakeLLM{response: `Keywords: ["Lofi", " RAIN ", "chill"]`}
	s := NewSuggester(store, client)

	got, err := s.Suggest(context.Background(), "chill lofi rain sounds")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}

	want := []string{"chill", "lofi", "rain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggestLLMSkipsNonStrings(t *testing.T) {
	store := &fakeTagStore{names: nil}
	client := &fakeLLM{response: `["valid", 5, null, {"k": "v"}, "  "]`}
	s := NewSuggester(store, client)

	got, err := s.Suggest(context.Background(), "mixed bag")
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}

	want := []string{"valid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}
}

func TestSuggestLLMFailureIgnored(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeLLM
	}{
		{name: "request error", client: &fakeLLM{err: errors.New("timeout")}},
		{name: "non-JSON output", client: &fakeLLM{response: "no tags here"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeTagStore{names: []string{"focus"}}
			s := NewSuggester(store, tt.client)

			got, err := s.Suggest(context.Background(), "focus time")
			if err != nil {
				t.Fatalf("model failure must not fail suggestion: %v", err)
			}
			want := []string{"focus"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Suggest = %v, want %v", got, want)
			}
		})
	}
}
