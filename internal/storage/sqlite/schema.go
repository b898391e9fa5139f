package sqlite

// Schema defines the SQLite database schema for the dialogue engine.
//
// Sessions, profiles, and patterns carry their variable-shaped parts
// (message lists, keyword lists, reply records) as JSON columns; the
// engine always reads and writes whole aggregates, so there is nothing
// to gain from normalising them into child tables.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	messages TEXT NOT NULL DEFAULT '[]',
	current_topic TEXT NOT NULL DEFAULT 'general',
	emotional_state TEXT NOT NULL DEFAULT 'neutral',
	previous_topics TEXT NOT NULL DEFAULT '[]',
	last_interaction_at DATETIME NOT NULL,
	started_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_last_interaction ON sessions(last_interaction_at);

CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	functioning_type TEXT NOT NULL DEFAULT 'unknown',
	communication_style TEXT NOT NULL DEFAULT 'balanced_flexible',
	preferred_length TEXT NOT NULL DEFAULT 'medium',
	emotional_support INTEGER NOT NULL DEFAULT 1,
	sensitivity_level TEXT NOT NULL DEFAULT 'medium',
	learned_pattern_keys TEXT NOT NULL DEFAULT '[]',
	adaptation_score REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS patterns (
	fingerprint TEXT PRIMARY KEY,
	intent TEXT NOT NULL,
	emotional_tone TEXT NOT NULL,
	context_type TEXT NOT NULL,
	functioning_type TEXT NOT NULL,
	keywords TEXT NOT NULL DEFAULT '[]',
	successful_replies TEXT NOT NULL DEFAULT '[]',
	success_count INTEGER NOT NULL DEFAULT 0,
	last_used_at DATETIME
);

CREATE TABLE IF NOT EXISTS feedback (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	helpful INTEGER NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_session ON feedback(session_id);
`
