package postgres

// Schema defines the PostgreSQL schema for the dialogue engine. All
// statements are idempotent so the schema can be re-applied on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	messages JSONB NOT NULL DEFAULT '[]',
	current_topic TEXT NOT NULL DEFAULT 'general',
	emotional_state TEXT NOT NULL DEFAULT 'neutral',
	previous_topics JSONB NOT NULL DEFAULT '[]',
	last_interaction_at TIMESTAMPTZ NOT NULL,
	started_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_sessions_last_interaction ON sessions(last_interaction_at);

CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	functioning_type TEXT NOT NULL DEFAULT 'unknown',
	communication_style TEXT NOT NULL DEFAULT 'balanced_flexible',
	preferred_length TEXT NOT NULL DEFAULT 'medium',
	emotional_support BOOLEAN NOT NULL DEFAULT TRUE,
	sensitivity_level TEXT NOT NULL DEFAULT 'medium',
	learned_pattern_keys JSONB NOT NULL DEFAULT '[]',
	adaptation_score DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS patterns (
	fingerprint TEXT PRIMARY KEY,
	intent TEXT NOT NULL,
	emotional_tone TEXT NOT NULL,
	context_type TEXT NOT NULL,
	functioning_type TEXT NOT NULL,
	keywords JSONB NOT NULL DEFAULT '[]',
	successful_replies JSONB NOT NULL DEFAULT '[]',
	success_count INTEGER NOT NULL DEFAULT 0,
	last_used_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS feedback (
	id BIGSERIAL PRIMARY KEY,
	session_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	helpful BOOLEAN NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_session ON feedback(session_id);
`
