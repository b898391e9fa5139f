package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mguerin/compagnon/internal/config"
	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// PatternMatch is a learned pattern with its similarity score against the
// query analysis.
type PatternMatch struct {
	Pattern    *types.ResponsePattern
	Similarity float64
}

// PatternLearner stores successful replies keyed by situation fingerprint
// and retrieves patterns similar to a new situation. The pattern population
// stays small (one entry per situation class) so retrieval scans it in full.
type PatternLearner struct {
	store   storage.PatternStore
	tuning  config.RetrievalConfig
	keyLock sync.Map // fingerprint -> *sync.Mutex
}

// NewPatternLearner creates a learner over the given pattern store.
func NewPatternLearner(store storage.PatternStore, tuning config.RetrievalConfig) *PatternLearner {
	return &PatternLearner{store: store, tuning: tuning}
}

func (l *PatternLearner) lockFor(fingerprint string) *sync.Mutex {
	mu, _ := l.keyLock.LoadOrStore(fingerprint, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// RecordSuccess appends a reply the user confirmed as helpful to the pattern
// for this situation, creating the pattern on first success. Returns the
// pattern fingerprint.
func (l *PatternLearner) RecordSuccess(ctx context.Context, analysis types.Analysis, profile *types.UserProfile, reply string) (string, error) {
	if reply == "" {
		return "", fmt.Errorf("%w: reply is required", storage.ErrInvalidInput)
	}

	fingerprint := types.Fingerprint(analysis, functioningType(profile))

	// Serialise read-modify-write per fingerprint so concurrent feedback on
	// the same situation class doesn't drop replies.
	mu := l.lockFor(fingerprint)
	mu.Lock()
	defer mu.Unlock()

	pattern, err := l.store.Get(ctx, fingerprint)
	if errors.Is(err, storage.ErrNotFound) {
		pattern = &types.ResponsePattern{
			Fingerprint:     fingerprint,
			Intent:          analysis.Intent,
			EmotionalTone:   analysis.EmotionalTone,
			ContextType:     analysis.ContextType,
			FunctioningType: functioningType(profile),
			Keywords:        analysis.Keywords,
		}
	} else if err != nil {
		return "", fmt.Errorf("failed to load pattern: %w", err)
	}

	pattern.AppendReply(reply, time.Now())

	if err := l.store.Put(ctx, pattern); err != nil {
		return "", fmt.Errorf("failed to store pattern: %w", err)
	}
	return fingerprint, nil
}

// FindSimilar returns the stored patterns whose situation resembles the
// analysis, best first, capped at the configured count. Patterns at or
// below the similarity threshold are excluded.
func (l *PatternLearner) FindSimilar(ctx context.Context, analysis types.Analysis) ([]PatternMatch, error) {
	patterns, err := l.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}

	var matches []PatternMatch
	for _, pattern := range patterns {
		score := l.similarity(analysis, pattern.Features())
		if score > l.tuning.Threshold {
			matches = append(matches, PatternMatch{Pattern: pattern, Similarity: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > l.tuning.TopK {
		matches = matches[:l.tuning.TopK]
	}
	return matches, nil
}

// similarity scores how closely two analyses describe the same situation.
// Intent and context dominate; shared keywords and tone refine. The score
// is achieved weight over possible weight, in [0, 1].
func (l *PatternLearner) similarity(a, b types.Analysis) float64 {
	var score, total float64

	if a.Intent == b.Intent {
		score += l.tuning.IntentWeight
	}
	total += l.tuning.IntentWeight

	if a.ContextType == b.ContextType {
		score += l.tuning.ContextWeight
	}
	total += l.tuning.ContextWeight

	shared := a.SharedKeywords(b)
	score += l.tuning.KeywordWeight * float64(shared)
	longest := len(a.Keywords)
	if len(b.Keywords) > longest {
		longest = len(b.Keywords)
	}
	total += l.tuning.KeywordWeight * float64(longest)

	if a.EmotionalTone == b.EmotionalTone {
		score += l.tuning.ToneWeight
	}
	total += l.tuning.ToneWeight

	if total == 0 {
		return 0
	}
	return score / total
}
