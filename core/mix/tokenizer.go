package mix

import (
	"regexp"
	"strings"
)

// wordPattern matches maximal runs of letters, digits and underscores.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize extracts lowercase word tokens from free text. Empty or
// whitespace-only input yields no tokens.
func Tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}
