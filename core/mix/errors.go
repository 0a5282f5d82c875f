package mix

import "errors"

var (
	// ErrInvalidPrompt is returned for a missing or blank prompt.
	ErrInvalidPrompt = errors.New("prompt is required")

	// ErrNoCandidates is returned when no tracks are available to select from.
	ErrNoCandidates = errors.New("no tracks available to select from")
)
