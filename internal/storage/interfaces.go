// Package storage provides composable storage interfaces for the Loreweaver
// world state.
//
// The storage layer is split into small, per-entity interfaces that can be
// implemented independently and composed as needed. The engine depends only
// on these interface shapes, never on a specific storage backend.
package storage

import (
	"context"

	"github.com/thornquist/loreweaver/pkg/types"
)

// CharacterStore provides persistence for characters.
type CharacterStore interface {
	// StoreCharacter creates or updates a character (upsert semantics).
	StoreCharacter(ctx context.Context, character *types.Character) error

	// GetCharacter retrieves a character by ID.
	// Returns ErrNotFound if the character doesn't exist.
	GetCharacter(ctx context.Context, id string) (*types.Character, error)

	// ListCharacters returns all active characters ordered by creation time
	// ascending.
	ListCharacters(ctx context.Context) ([]*types.Character, error)

	// UpdateCharacterMood overwrites a character's current mood.
	// Returns ErrNotFound if the character doesn't exist.
	UpdateCharacterMood(ctx context.Context, id string, mood types.Mood) error
}

// ConversationStore provides persistence for conversations.
type ConversationStore interface {
	// StoreConversation creates or updates a conversation (upsert semantics).
	StoreConversation(ctx context.Context, conversation *types.Conversation) error

	// GetConversation retrieves a conversation by ID.
	// Returns ErrNotFound if the conversation doesn't exist.
	GetConversation(ctx context.Context, id string) (*types.Conversation, error)

	// FindActiveConversation returns the active conversation for a
	// (user, character) pair, or ErrNotFound when none exists. At most one
	// such conversation exists per pair.
	FindActiveConversation(ctx context.Context, userID, characterID string) (*types.Conversation, error)

	// ListUserConversations returns a user's active conversations ordered by
	// last message time descending.
	ListUserConversations(ctx context.Context, userID string) ([]*types.Conversation, error)
}

// MessageStore provides persistence for messages.
type MessageStore interface {
	// StoreMessage persists a new message. Messages are immutable once created.
	StoreMessage(ctx context.Context, message *types.Message) error

	// ListMessages returns a conversation's messages ordered by timestamp
	// ascending, truncated per opts.
	ListMessages(ctx context.Context, conversationID string, opts MessageListOptions) ([]*types.Message, error)

	// CountMessages returns the number of messages in a conversation.
	CountMessages(ctx context.Context, conversationID string) (int, error)
}

// QuestStore provides persistence for quest instances.
type QuestStore interface {
	// StoreQuest creates or updates a quest (upsert semantics).
	StoreQuest(ctx context.Context, quest *types.Quest) error

	// GetQuest retrieves a quest by ID.
	// Returns ErrNotFound if the quest doesn't exist.
	GetQuest(ctx context.Context, id string) (*types.Quest, error)

	// ListUserQuests returns a user's quests ordered by creation time
	// descending, optionally filtered by status.
	ListUserQuests(ctx context.Context, userID string, filter QuestFilter) ([]*types.Quest, error)
}

// EventStore provides persistence for world events.
type EventStore interface {
	// StoreEvent creates or updates a world event (upsert semantics).
	StoreEvent(ctx context.Context, event *types.WorldEvent) error

	// GetEvent retrieves a world event by ID.
	// Returns ErrNotFound if the event doesn't exist.
	GetEvent(ctx context.Context, id string) (*types.WorldEvent, error)

	// ListActiveEvents returns all events flagged active ordered by creation
	// time descending. Callers are expected to run ExpireEvents first; the
	// engine's active-event read always pairs the two.
	ListActiveEvents(ctx context.Context) ([]*types.WorldEvent, error)

	// ListAllEvents returns every event, active or not, newest first.
	ListAllEvents(ctx context.Context) ([]*types.WorldEvent, error)

	// ExpireEvents flips the active flag off for every event whose expiry
	// timestamp is in the past. Returns the number of events deactivated.
	ExpireEvents(ctx context.Context) (int, error)
}

// UserStore provides persistence for user records. Credentials live outside
// this system; only the identity row is stored here.
type UserStore interface {
	// StoreUser creates or updates a user (upsert semantics).
	StoreUser(ctx context.Context, user *types.User) error

	// GetUser retrieves a user by ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetUser(ctx context.Context, id string) (*types.User, error)
}

// WorldStore composes all per-entity stores. Both the SQLite and Postgres
// backends implement the full set.
type WorldStore interface {
	CharacterStore
	ConversationStore
	MessageStore
	QuestStore
	EventStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}
