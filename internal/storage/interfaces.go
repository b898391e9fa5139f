// Package storage provides composable storage interfaces for the Compagnon
// dialogue engine.
//
// The storage layer is designed with small, focused interfaces that can be
// implemented independently and composed as needed. Backends exist for
// in-memory maps (tests and single-process defaults), SQLite, and Postgres.
// None of the engine's per-request logic depends on which backend is wired.
package storage

import (
	"context"
	"time"

	"github.com/mguerin/compagnon/pkg/types"
)

// SessionStore persists conversational sessions.
type SessionStore interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	Get(ctx context.Context, id string) (*types.Session, error)

	// Put creates or updates a session (upsert semantics).
	Put(ctx context.Context, session *types.Session) error

	// Delete removes a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	Delete(ctx context.Context, id string) error

	// ListIdleBefore returns the IDs of sessions whose last interaction is
	// strictly before the cutoff. Used by the periodic cleanup sweep.
	ListIdleBefore(ctx context.Context, cutoff time.Time) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// ProfileStore persists per-user preference and adaptation records.
type ProfileStore interface {
	// Get retrieves a profile by user ID.
	// Returns ErrNotFound for first-time users; callers default to a
	// neutral profile rather than failing.
	Get(ctx context.Context, userID string) (*types.UserProfile, error)

	// Save creates or updates a profile (upsert semantics).
	Save(ctx context.Context, profile *types.UserProfile) error
}

// PatternStore persists learned response patterns keyed by fingerprint.
type PatternStore interface {
	// Get retrieves a pattern by fingerprint.
	// Returns ErrNotFound if no pattern exists for the fingerprint.
	Get(ctx context.Context, fingerprint string) (*types.ResponsePattern, error)

	// Put creates or updates a pattern (upsert semantics).
	Put(ctx context.Context, pattern *types.ResponsePattern) error

	// All returns every stored pattern. The pattern population is small
	// (one entry per situation class, not per interaction), so similarity
	// retrieval scans it in full.
	All(ctx context.Context) ([]*types.ResponsePattern, error)
}

// FeedbackStore is the append-only feedback log.
type FeedbackStore interface {
	// Append adds a feedback record. Records are never mutated.
	Append(ctx context.Context, record *types.FeedbackRecord) error

	// List returns the most recent records, newest first, up to limit.
	List(ctx context.Context, limit int) ([]types.FeedbackRecord, error)
}

// Stores bundles the four stores a running engine needs. A backend package
// typically implements all four on one type and exposes a constructor that
// returns this bundle.
type Stores struct {
	Sessions SessionStore
	Profiles ProfileStore
	Patterns PatternStore
	Feedback FeedbackStore
}
