package sqlite

// Schema is the embedded SQLite schema for the world store. All six entity
// tables are created idempotently; JSON-valued columns hold open-ended
// key/value structures (mood, metadata, rewards, string sets).
const Schema = `
-- Users: identity rows only; credentials live outside this system
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL,
    email TEXT NOT NULL,
    display_name TEXT,
    level INTEGER NOT NULL DEFAULT 1,
    experience_points INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Characters: AI-controlled world inhabitants
CREATE TABLE IF NOT EXISTS characters (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'custom',
    description TEXT,
    personality_prompt TEXT,
    backstory TEXT,
    location TEXT,

    -- JSON arrays of strings
    speech_patterns JSONB,
    knowledge_domains JSONB,

    -- JSON object {state, intensity, reason}
    current_mood JSONB,

    alignment TEXT NOT NULL DEFAULT 'neutral',
    race TEXT,
    level INTEGER NOT NULL DEFAULT 1,
    experience_points INTEGER NOT NULL DEFAULT 0,
    avatar_url TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,

    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Conversations: one user, one character, foreign identifiers only
CREATE TABLE IF NOT EXISTS conversations (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    character_id TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    summary TEXT,

    -- JSON object {totalMessages, userFacts}
    metadata JSONB,

    last_message_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conversations_user_character
    ON conversations(user_id, character_id, is_active);

-- Messages: immutable, ordered by timestamp within a conversation
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    sender TEXT NOT NULL,
    content TEXT NOT NULL,

    -- JSON object {mood, actionTaken}, null for user messages
    metadata JSONB,

    timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

    FOREIGN KEY (conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation_timestamp
    ON messages(conversation_id, timestamp);

-- Quests: lifecycle state machine instances
CREATE TABLE IF NOT EXISTS quests (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    character_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    difficulty TEXT NOT NULL DEFAULT 'medium',
    status TEXT NOT NULL DEFAULT 'offered',
    progress INTEGER NOT NULL DEFAULT 0,

    -- JSON array of objective objects
    objectives JSONB,

    -- JSON object from the fixed difficulty reward table
    rewards JSONB,

    completed_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_quests_user_status ON quests(user_id, status);

-- World events: time-boxed happenings that drive mood propagation
CREATE TABLE IF NOT EXISTS world_events (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    severity TEXT NOT NULL DEFAULT 'low',

    -- JSON arrays of strings
    affected_locations JSONB,
    affected_character_ids JSONB,

    is_active INTEGER NOT NULL DEFAULT 1,
    expires_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_world_events_active ON world_events(is_active, expires_at);
`
