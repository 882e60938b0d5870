package types

import "time"

// ConversationMetadata is the rolling memory attached to a conversation.
// UserFacts has set semantics: merging extracted facts is a deduplicating
// union, and the set never shrinks.
type ConversationMetadata struct {
	TotalMessages int      `json:"totalMessages"`
	UserFacts     []string `json:"userFacts"`
}

// Conversation is a persistent dialogue between one user and one character.
// It stores foreign identifiers only; related messages are loaded by explicit
// query, never by implicit graph traversal.
//
// At most one conversation per (user, character) pair has IsActive=true.
// The invariant is enforced by lookup-before-create in the engine, not by a
// storage uniqueness constraint.
type Conversation struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CharacterID string `json:"character_id"`
	IsActive    bool   `json:"is_active"`

	// Summary is the LLM-generated compression of the conversation so far,
	// refreshed every 50th message.
	Summary string `json:"summary,omitempty"`

	Metadata *ConversationMetadata `json:"metadata,omitempty"`

	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MergeUserFacts unions newFacts into the metadata fact set, preserving
// first-seen order and dropping duplicates.
func (m *ConversationMetadata) MergeUserFacts(newFacts []string) {
	seen := make(map[string]bool, len(m.UserFacts)+len(newFacts))
	for _, f := range m.UserFacts {
		seen[f] = true
	}
	for _, f := range newFacts {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		m.UserFacts = append(m.UserFacts, f)
	}
}

// MessageMetadata carries optional annotations on a character reply.
type MessageMetadata struct {
	Mood        string `json:"mood,omitempty"`
	ActionTaken string `json:"actionTaken,omitempty"`
}

// Message is a single utterance within a conversation. Messages are immutable
// once created and are ordered by Timestamp ascending within a conversation;
// that ordering is load-bearing for prompt construction and summarization.
type Message struct {
	ID             string           `json:"id"`
	ConversationID string           `json:"conversation_id"`
	Sender         SenderType       `json:"sender"`
	Content        string           `json:"content"`
	Metadata       *MessageMetadata `json:"metadata,omitempty"`
	Timestamp      time.Time        `json:"timestamp"`
}

// User is the plumbing identity record. Credential storage and token issuance
// live outside this system; callers always supply an authenticated user ID.
type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name,omitempty"`
	Level            int       `json:"level"`
	ExperiencePoints int       `json:"experience_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
