package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

// TurnResult is the outcome of one conversation turn. SideEffects records
// which best-effort follow-ups actually happened; Warnings carries their
// failure messages without failing the turn.
type TurnResult struct {
	UserMessage *types.Message
	Reply       *types.Message
	SideEffects TurnSideEffects
	Warnings    []string
}

// TurnSideEffects tags the optional consequences of a turn.
type TurnSideEffects struct {
	QuestOffered *types.Quest
	MoodUpdated  *types.Mood
	Summarized   bool
}

// StartConversation returns the active conversation between a user and a
// character, creating one if none exists. At most one active conversation
// exists per pair.
func (e *Engine) StartConversation(ctx context.Context, userID, characterID string) (*types.Conversation, error) {
	// The character must exist; conversations never dangle.
	if _, err := e.store.GetCharacter(ctx, characterID); err != nil {
		return nil, err
	}

	existing, err := e.store.FindActiveConversation(ctx, userID, characterID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	conversation := &types.Conversation{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: characterID,
		IsActive:    true,
		Metadata: &types.ConversationMetadata{
			TotalMessages: 0,
			UserFacts:     []string{},
		},
	}
	if err := e.store.StoreConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to start conversation: %w", err)
	}
	return conversation, nil
}

// GetConversation retrieves a conversation, enforcing ownership.
func (e *Engine) GetConversation(ctx context.Context, conversationID, userID string) (*types.Conversation, error) {
	conversation, err := e.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, ErrNotOwner
	}
	return conversation, nil
}

// ListUserConversations returns a user's active conversations, most recently
// messaged first.
func (e *Engine) ListUserConversations(ctx context.Context, userID string) ([]*types.Conversation, error) {
	return e.store.ListUserConversations(ctx, userID)
}

// GetMessages returns a conversation's messages in timestamp order,
// enforcing ownership. A positive limit truncates the result.
func (e *Engine) GetMessages(ctx context.Context, conversationID, userID string, limit int) ([]*types.Message, error) {
	if _, err := e.GetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return e.store.ListMessages(ctx, conversationID, storage.MessageListOptions{Limit: limit})
}

// SendMessage runs one full conversation turn: persist the user message,
// assemble the prompt from memory and world state, generate the character's
// reply, persist it, then apply best-effort side effects.
//
// Durability is asymmetric: once the user message is stored it stays stored,
// even when generation fails afterwards. On generation failure the returned
// error is non-nil and the TurnResult still carries the persisted user
// message.
//
// Turns are serialised per conversation; concurrent sends to the same
// conversation queue behind each other.
func (e *Engine) SendMessage(ctx context.Context, conversationID, userID, content string) (*TurnResult, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", storage.ErrInvalidInput)
	}

	unlock := e.lockConversation(conversationID)
	defer unlock()

	conversation, err := e.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	character, err := e.store.GetCharacter(ctx, conversation.CharacterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	// Persist the user message first. From here on the turn owes the user
	// their message in history no matter what the narrator does.
	userMessage := &types.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         types.SenderUser,
		Content:        content,
		Timestamp:      time.Now(),
	}
	if err := e.store.StoreMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	result := &TurnResult{UserMessage: userMessage}

	history, err := e.store.ListMessages(ctx, conversationID, storage.MessageListOptions{})
	if err != nil {
		return result, fmt.Errorf("failed to load history: %w", err)
	}

	events, err := e.ActiveEvents(ctx)
	if err != nil {
		// A world-state read failure shouldn't kill the turn; the prompt
		// falls back to a calm realm.
		log.Printf("engine: failed to load active events: %v", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("world state unavailable: %v", err))
		events = nil
	}

	reply, err := e.narrator.GenerateReply(ctx, character, history, events, conversation, content)
	if err != nil {
		return result, fmt.Errorf("failed to generate reply: %w", err)
	}

	characterMessage := &types.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Sender:         types.SenderCharacter,
		Content:        reply.Message,
		Metadata: &types.MessageMetadata{
			Mood:        reply.Mood,
			ActionTaken: reply.ActionTaken,
		},
		Timestamp: time.Now(),
	}
	if err := e.store.StoreMessage(ctx, characterMessage); err != nil {
		return result, fmt.Errorf("failed to store character message: %w", err)
	}
	result.Reply = characterMessage

	// Conversation bookkeeping: count and recency.
	if conversation.Metadata == nil {
		conversation.Metadata = &types.ConversationMetadata{UserFacts: []string{}}
	}
	conversation.Metadata.TotalMessages = len(history) + 1
	now := time.Now()
	conversation.LastMessageAt = &now
	if err := e.store.StoreConversation(ctx, conversation); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("metadata update failed: %v", err))
		log.Printf("engine: failed to update conversation metadata: %v", err)
	}

	// Side effects are best-effort from here on. Each failure is logged and
	// tagged on the result; none of them fail the turn.
	if reply.QuestOffered != nil {
		quest, err := e.CreateQuest(ctx, userID, conversation.CharacterID, QuestOffer{
			Title:       reply.QuestOffered.Title,
			Description: reply.QuestOffered.Description,
			Difficulty:  reply.QuestOffered.Difficulty,
		})
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("quest creation failed: %v", err))
			log.Printf("engine: failed to create offered quest: %v", err)
		} else {
			result.SideEffects.QuestOffered = quest
		}
	}

	if reply.Mood != "" {
		mood := types.Mood{
			State:     reply.Mood,
			Intensity: 7,
			Reason:    "Conversation interaction",
		}
		if err := e.UpdateCharacterMood(ctx, conversation.CharacterID, mood); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("mood update failed: %v", err))
			log.Printf("engine: failed to update character mood: %v", err)
		} else {
			result.SideEffects.MoodUpdated = &mood
		}
	}

	if len(history) > 0 && len(history)%e.config.SummaryInterval == 0 {
		if err := e.refreshConversationMemory(ctx, conversation, history); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("memory refresh failed: %v", err))
			log.Printf("engine: failed to persist conversation memory: %v", err)
		} else {
			result.SideEffects.Summarized = true
		}
	}

	e.publish("message", characterMessage)

	return result, nil
}

// refreshConversationMemory regenerates the rolling summary and merges newly
// extracted user facts. The narrator degrades internally rather than erroring;
// only a failure to persist the refreshed memory is reported.
func (e *Engine) refreshConversationMemory(ctx context.Context, conversation *types.Conversation, history []*types.Message) error {
	conversation.Summary = e.narrator.Summarize(ctx, history)

	facts := e.narrator.ExtractFacts(ctx, history)
	if conversation.Metadata == nil {
		conversation.Metadata = &types.ConversationMetadata{}
	}
	conversation.Metadata.MergeUserFacts(facts)

	if err := e.store.StoreConversation(ctx, conversation); err != nil {
		return fmt.Errorf("failed to persist conversation memory: %w", err)
	}
	return nil
}
