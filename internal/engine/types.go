// Package engine implements the dialogue-context engine: session tracking,
// strategy selection, fragment-based reply construction, pattern learning,
// and feedback adaptation.
package engine

import "github.com/mguerin/compagnon/internal/config"

// Config holds the engine's operating limits and retrieval tuning.
type Config struct {
	// MaxSessionMessages is the number of messages kept per session; older
	// messages are evicted FIFO.
	MaxSessionMessages int

	// RetentionDays is how long an idle session survives before Cleanup
	// removes it.
	RetentionDays int

	// RecentWindow is how many trailing assistant messages are checked
	// when avoiding repeated fragment variants.
	RecentWindow int

	// Retrieval tunes pattern similarity scoring.
	Retrieval config.RetrievalConfig
}

// DefaultConfig returns the engine defaults: 50 messages per session,
// 7 day retention, 6 message repetition window.
func DefaultConfig() Config {
	return Config{
		MaxSessionMessages: 50,
		RetentionDays:      7,
		RecentWindow:       6,
		Retrieval:          config.DefaultRetrievalConfig(),
	}
}
