// Package llm provides optional language-model clients for reply generation.
// The rule engine never depends on a provider being configured or reachable;
// a configured client is tried first and its output is validated before use.
package llm

import "context"

// TextGenerator produces a single-turn completion for a prompt.
type TextGenerator interface {
	// Complete sends the prompt and returns the raw response text.
	Complete(ctx context.Context, prompt string) (string, error)

	// GetModel returns the configured model name, for logging.
	GetModel() string
}
