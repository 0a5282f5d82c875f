package mix

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple words",
			input: "calm evening jazz",
			want:  []string{"calm", "evening", "jazz"},
		},
		{
			name:  "lowercases and strips punctuation",
			input: "Chill, Lo-Fi beats!",
			want:  []string{"chill", "lo", "fi", "beats"},
		},
		{
			name:  "keeps digits and underscores",
			input: "top_40 hits 2024",
			want:  []string{"top_40", "hits", "2024"},
		},
		{
			name:  "unicode letters",
			input: "café Müzik",
			want:  []string{"café", "müzik"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   \t\n  ",
			want:  nil,
		},
		{
			name:  "punctuation only",
			input: "?!... ---",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
