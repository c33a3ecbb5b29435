package decisions

import "errors"

var (
	// ErrPromptTooShort rejects prompts under the minimum trimmed length.
	ErrPromptTooShort = errors.New("prompt too short")
	// ErrNotFound indicates a vault record does not exist.
	ErrNotFound = errors.New("decision route not found")
)
