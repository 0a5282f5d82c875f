package tags

import (
	"reflect"
	"testing"
)

func TestParseTagNames(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "no values",
			values: nil,
			want:   nil,
		},
		{
			name:   "single empty value",
			values: []string{"   "},
			want:   nil,
		},
		{
			name:   "repeated form values",
			values: []string{"chill", "study", "lofi"},
			want:   []string{"chill", "study", "lofi"},
		},
		{
			name:   "single JSON array",
			values: []string{`["chill", "study"]`},
			want:   []string{"chill", "study"},
		},
		{
			name:   "single comma separated",
			values: []string{"chill, study , lofi"},
			want:   []string{"chill", "study", "lofi"},
		},
		{
			name:   "single plain name",
			values: []string{"ambient"},
			want:   []string{"ambient"},
		},
		{
			name:   "drops empty segments",
			values: []string{"chill,,  ,study"},
			want:   []string{"chill", "study"},
		},
		{
			name:   "repeated values with blanks",
			values: []string{"chill", "  ", "study"},
			want:   []string{"chill", "study"},
		},
		{
			name:   "malformed JSON falls back to comma split",
			values: []string{`["chill", "study"`},
			want:   []string{`["chill"`, `"study"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTagNames(tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTagNames(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
