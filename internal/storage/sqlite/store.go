// Package sqlite implements the storage interfaces over a SQLite database.
// It is the durable backend for single-host deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mguerin/compagnon/internal/storage"
	"github.com/mguerin/compagnon/pkg/types"
)

// Store implements all four storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database, configures WAL mode, and creates the
// schema if it does not exist.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. Using a single open
	// connection serialises writes and avoids SQLITE_BUSY errors under
	// concurrent load. WAL mode lets readers proceed without blocking
	// the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Wait instead of returning an immediate SQLITE_BUSY error when the
	// connection is held by another goroutine.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
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

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: session ID is required", storage.ErrInvalidInput)
	}

	query := `
		SELECT id, user_id, messages, current_topic, emotional_state,
		       previous_topics, last_interaction_at, started_at
		FROM sessions WHERE id = ?
	`

	var (
		session                       types.Session
		messagesJSON, prevTopicsJSON  []byte
		currentTopic, emotionalState  string
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID, &session.UserID, &messagesJSON, &currentTopic,
		&emotionalState, &prevTopicsJSON,
		&session.Context.LastInteractionAt, &session.StartedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal(messagesJSON, &session.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	if err := json.Unmarshal(prevTopicsJSON, &session.Context.PreviousTopics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal previous topics: %w", err)
	}
	session.Context.CurrentTopic = types.Intent(currentTopic)
	session.Context.EmotionalState = types.EmotionalTone(emotionalState)

	return &session, nil
}

// Put creates or updates a session (upsert semantics).
func (s *Store) Put(ctx context.Context, session *types.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session ID is required", storage.ErrInvalidInput)
	}

	messagesJSON, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	prevTopicsJSON, err := json.Marshal(session.Context.PreviousTopics)
	if err != nil {
		return fmt.Errorf("failed to marshal previous topics: %w", err)
	}

	query := `
		INSERT INTO sessions (
			id, user_id, messages, current_topic, emotional_state,
			previous_topics, last_interaction_at, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			messages = excluded.messages,
			current_topic = excluded.current_topic,
			emotional_state = excluded.emotional_state,
			previous_topics = excluded.previous_topics,
			last_interaction_at = excluded.last_interaction_at
	`

	_, err = s.db.ExecContext(ctx, query,
		session.ID, session.UserID, string(messagesJSON),
		string(session.Context.CurrentTopic), string(session.Context.EmotionalState),
		string(prevTopicsJSON), session.Context.LastInteractionAt, session.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListIdleBefore returns IDs of sessions idle since before the cutoff.
func (s *Store) ListIdleBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM sessions WHERE last_interaction_at < ? ORDER BY id", cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session ID: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// profileStore exposes the profile operations of Store.
type profileStore Store

func (p *profileStore) Get(ctx context.Context, userID string) (*types.UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	query := `
		SELECT user_id, functioning_type, communication_style, preferred_length,
		       emotional_support, sensitivity_level, learned_pattern_keys,
		       adaptation_score
		FROM profiles WHERE user_id = ?
	`

	var (
		profile  types.UserProfile
		keysJSON []byte
	)

	err := p.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.FunctioningType,
		&profile.Preferences.CommunicationStyle, &profile.Preferences.PreferredLength,
		&profile.Preferences.EmotionalSupport, &profile.Preferences.SensitivityLevel,
		&keysJSON, &profile.AdaptationScore,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(keysJSON, &profile.LearnedPatternKeys); err != nil {
		return nil, fmt.Errorf("failed to unmarshal learned pattern keys: %w", err)
	}
	return &profile, nil
}

func (p *profileStore) Save(ctx context.Context, profile *types.UserProfile) error {
	if profile == nil || profile.UserID == "" {
		return fmt.Errorf("%w: user ID is required", storage.ErrInvalidInput)
	}

	keysJSON, err := json.Marshal(profile.LearnedPatternKeys)
	if err != nil {
		return fmt.Errorf("failed to marshal learned pattern keys: %w", err)
	}

	query := `
		INSERT INTO profiles (
			user_id, functioning_type, communication_style, preferred_length,
			emotional_support, sensitivity_level, learned_pattern_keys,
			adaptation_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			functioning_type = excluded.functioning_type,
			communication_style = excluded.communication_style,
			preferred_length = excluded.preferred_length,
			emotional_support = excluded.emotional_support,
			sensitivity_level = excluded.sensitivity_level,
			learned_pattern_keys = excluded.learned_pattern_keys,
			adaptation_score = excluded.adaptation_score
	`

	_, err = p.db.ExecContext(ctx, query,
		profile.UserID, profile.FunctioningType,
		profile.Preferences.CommunicationStyle, profile.Preferences.PreferredLength,
		profile.Preferences.EmotionalSupport, profile.Preferences.SensitivityLevel,
		string(keysJSON), profile.AdaptationScore,
	)
	if err != nil {
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

// patternStore exposes the pattern operations of Store.
type patternStore Store

func (p *patternStore) Get(ctx context.Context, fingerprint string) (*types.ResponsePattern, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("%w: fingerprint is required", storage.ErrInvalidInput)
	}

	query := patternSelect + " WHERE fingerprint = ?"

	row := p.db.QueryRowContext(ctx, query, fingerprint)
	pattern, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern: %w", err)
	}
	return pattern, nil
}

func (p *patternStore) Put(ctx context.Context, pattern *types.ResponsePattern) error {
	if pattern == nil || pattern.Fingerprint == "" {
		return fmt.Errorf("%w: fingerprint is required", storage.ErrInvalidInput)
	}

	keywordsJSON, err := json.Marshal(pattern.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	repliesJSON, err := json.Marshal(pattern.SuccessfulReplies)
	if err != nil {
		return fmt.Errorf("failed to marshal replies: %w", err)
	}

	query := `
		INSERT INTO patterns (
			fingerprint, intent, emotional_tone, context_type, functioning_type,
			keywords, successful_replies, success_count, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			keywords = excluded.keywords,
			successful_replies = excluded.successful_replies,
			success_count = excluded.success_count,
			last_used_at = excluded.last_used_at
	`

	_, err = p.db.ExecContext(ctx, query,
		pattern.Fingerprint, string(pattern.Intent), string(pattern.EmotionalTone),
		string(pattern.ContextType), pattern.FunctioningType,
		string(keywordsJSON), string(repliesJSON),
		pattern.SuccessCount, nullTime(pattern.LastUsedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to store pattern: %w", err)
	}
	return nil
}

func (p *patternStore) All(ctx context.Context) ([]*types.ResponsePattern, error) {
	rows, err := p.db.QueryContext(ctx, patternSelect+" ORDER BY fingerprint")
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*types.ResponsePattern
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, rows.Err()
}

const patternSelect = `
	SELECT fingerprint, intent, emotional_tone, context_type, functioning_type,
	       keywords, successful_replies, success_count, last_used_at
	FROM patterns
`

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(row scanner) (*types.ResponsePattern, error) {
	var (
		pattern                types.ResponsePattern
		keywordsJSON           []byte
		repliesJSON            []byte
		intent, tone, contextT string
		lastUsed               sql.NullTime
	)

	err := row.Scan(
		&pattern.Fingerprint, &intent, &tone, &contextT,
		&pattern.FunctioningType, &keywordsJSON, &repliesJSON,
		&pattern.SuccessCount, &lastUsed,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(keywordsJSON, &pattern.Keywords); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords: %w", err)
	}
	if err := json.Unmarshal(repliesJSON, &pattern.SuccessfulReplies); err != nil {
		return nil, fmt.Errorf("failed to unmarshal replies: %w", err)
	}

	pattern.Intent = types.Intent(intent)
	pattern.EmotionalTone = types.EmotionalTone(tone)
	pattern.ContextType = types.ContextType(contextT)
	if lastUsed.Valid {
		pattern.LastUsedAt = lastUsed.Time
	}
	return &pattern, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// feedbackStore exposes the feedback operations of Store.
type feedbackStore Store

func (f *feedbackStore) Append(ctx context.Context, record *types.FeedbackRecord) error {
	if record == nil || record.SessionID == "" || record.MessageID == "" {
		return fmt.Errorf("%w: session ID and message ID are required", storage.ErrInvalidInput)
	}

	_, err := f.db.ExecContext(ctx,
		"INSERT INTO feedback (session_id, message_id, helpful, comment, created_at) VALUES (?, ?, ?, ?, ?)",
		record.SessionID, record.MessageID, record.Helpful, record.Comment, record.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

func (f *feedbackStore) List(ctx context.Context, limit int) ([]types.FeedbackRecord, error) {
	query := "SELECT session_id, message_id, helpful, comment, created_at FROM feedback ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var records []types.FeedbackRecord
	for rows.Next() {
		var r types.FeedbackRecord
		if err := rows.Scan(&r.SessionID, &r.MessageID, &r.Helpful, &r.Comment, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
