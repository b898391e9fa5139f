package engine

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mguerin/compagnon/pkg/types"
)

// trackerSize bounds the number of (session, element) usage entries kept in
// memory; old sessions age out of the LRU instead of leaking.
const trackerSize = 4096

// usedPerKey caps how many variant choices are remembered per key.
const usedPerKey = 5

// variantTracker picks fragment variants while avoiding repeats. A variant
// is skipped when its opening was used in the recent assistant messages or
// when this session already used it for the same element. When the whole
// pool is exhausted it falls back to the first variant behind a rotating
// lead-in, so the text still differs from previous turns.
type variantTracker struct {
	mu       sync.Mutex
	used     *lru.Cache[string, []string]
	fallback *lru.Cache[string, int]
}

func newVariantTracker() *variantTracker {
	used, _ := lru.New[string, []string](trackerSize)
	fallback, _ := lru.New[string, int](trackerSize)
	return &variantTracker{used: used, fallback: fallback}
}

// pick returns the variant to use for the given element in the given
// session. recentContents holds the trailing assistant messages of the
// session, most recent last.
func (t *variantTracker) pick(sessionID string, element types.ElementTag, pool []string, recentContents []string) string {
	if len(pool) == 0 {
		return ""
	}

	key := sessionID + "\x00" + string(element)

	t.mu.Lock()
	defer t.mu.Unlock()

	usedInSession, _ := t.used.Get(key)

	recent := make([]string, len(recentContents))
	for i, content := range recentContents {
		recent[i] = strings.ToLower(content)
	}

	for _, variant := range pool {
		if usedRecently(variant, recent) || contains(usedInSession, variant) {
			continue
		}

		usedInSession = append(usedInSession, variant)
		if len(usedInSession) > usedPerKey {
			usedInSession = usedInSession[1:]
		}
		t.used.Add(key, usedInSession)
		return variant
	}

	// Pool exhausted: reuse the first variant behind a rotating lead-in.
	n, _ := t.fallback.Get(key)
	t.fallback.Add(key, n+1)
	return fallbackLeadIns[n%len(fallbackLeadIns)] + pool[0]
}

// forget drops the tracked state for a session, used when a session is
// cleaned up.
func (t *variantTracker) forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prefix := sessionID + "\x00"
	for _, key := range t.used.Keys() {
		if strings.HasPrefix(key, prefix) {
			t.used.Remove(key)
		}
	}
	for _, key := range t.fallback.Keys() {
		if strings.HasPrefix(key, prefix) {
			t.fallback.Remove(key)
		}
	}
}

// usedRecently reports whether the variant's opening appears in any recent
// assistant message. Matching on the first 20 runes catches re-phrased
// duplicates without requiring byte equality.
func usedRecently(variant string, recentLower []string) bool {
	opening := strings.ToLower(variant)
	if runes := []rune(opening); len(runes) > 20 {
		opening = string(runes[:20])
	}

	for _, content := range recentLower {
		if strings.Contains(content, opening) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
