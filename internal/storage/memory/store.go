// Package memory provides map-backed implementations of the storage
// interfaces. It is the default backend for tests and for single-process
// runs that don't need durability.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// Store implements all four storage interfaces over in-process maps.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*types.Session
	profiles map[string]*types.UserProfile
	patterns map[string]*types.ResponsePattern
	feedback []types.FeedbackRecord
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*types.Session),
		profiles: make(map[string]*types.UserProfile),
		patterns: make(map[string]*types.ResponsePattern),
	}
}

// Stores returns the store bundled as the four engine-facing interfaces.
func (s *Store) Stores() storage.Stores {
	return storage.Stores{
		Sessions: s,
		Profiles: (*profileStore)(s),
		Patterns: (*patternStore)(s),
		Feedback: (*feedbackStore)(s),
	}
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Session, error) {
	if id == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneSession(session), nil
}

// Put creates or updates a session.
func (s *Store) Put(ctx context.Context, session *types.Session) error {
	if session == nil || session.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = cloneSession(session)
	return nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ListIdleBefore returns IDs of sessions idle since before the cutoff.
func (s *Store) ListIdleBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, session := range s.sessions {
		if session.Context.LastInteractionAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error { return nil }

// profileStore exposes the profile operations of Store.
type profileStore Store

func (p *profileStore) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	if userID == "" {
		return nil, storage.ErrInvalidInput
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	profile, ok := p.profiles[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cloned := *profile
	cloned.LearnedPatternKeys = append([]string(nil), profile.LearnedPatternKeys...)
	return &cloned, nil
}

func (p *profileStore) Save(ctx context.Context, profile *types.UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return storage.ErrInvalidInput
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cloned := *profile
	cloned.LearnedPatternKeys = append([]string(nil), profile.LearnedPatternKeys...)
	p.profiles[profile.UserID] = &cloned
	return nil
}

// patternStore exposes the pattern operations of Store.
type patternStore Store

func (p *patternStore) Get(ctx context.Context, fingerprint string) (*types.ResponsePattern, error) {
	if fingerprint == "" {
		return nil, storage.ErrInvalidInput
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	pattern, ok := p.patterns[fingerprint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clonePattern(pattern), nil
}

func (p *patternStore) Put(ctx context.Context, pattern *types.ResponsePattern) error {
	if pattern == nil || pattern.Fingerprint == "" {
		return storage.ErrInvalidInput
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.patterns[pattern.Fingerprint] = clonePattern(pattern)
	return nil
}

func (p *patternStore) All(ctx context.Context) ([]*types.ResponsePattern, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]*types.ResponsePattern, 0, len(p.patterns))
	for _, pattern := range p.patterns {
		out = append(out, clonePattern(pattern))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fingerprint < out[j].Fingerprint })
	return out, nil
}

// feedbackStore exposes the feedback operations of Store.
type feedbackStore Store

func (f *feedbackStore) Append(ctx context.Context, record *types.FeedbackRecord) error {
	if record == nil || record.SessionID == "" || record.MessageID == "" {
		return storage.ErrInvalidInput
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.feedback = append(f.feedback, *record)
	return nil
}

func (f *feedbackStore) List(ctx context.Context, limit int) ([]types.FeedbackRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if limit <= 0 || limit > len(f.feedback) {
		limit = len(f.feedback)
	}

	// Newest first.
	out := make([]types.FeedbackRecord, 0, limit)
	for i := len(f.feedback) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.feedback[i])
	}
	return out, nil
}

// cloneSession deep-copies a session so callers never share slices with the
// stored value.
func cloneSession(s *types.Session) *types.Session {
	cloned := *s
	cloned.Messages = append([]types.Message(nil), s.Messages...)
	cloned.Context.PreviousTopics = append([]types.Intent(nil), s.Context.PreviousTopics...)
	return &cloned
}

func clonePattern(p *types.ResponsePattern) *types.ResponsePattern {
	cloned := *p
	cloned.Keywords = append([]string(nil), p.Keywords...)
	cloned.SuccessfulReplies = append([]types.ReplyRecord(nil), p.SuccessfulReplies...)
	return &cloned
}
