package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

// QuestOffer is the shape in which a character proposes a quest, either from
// generated dialogue or an explicit API call.
type QuestOffer struct {
	Title       string
	Description string
	Difficulty  string
}

// CreateQuest records a new quest in offered status. Rewards come from the
// fixed difficulty table; unrecognized difficulty strings fall back to medium.
func (e *Engine) CreateQuest(ctx context.Context, userID, characterID string, offer QuestOffer) (*types.Quest, error) {
	difficulty := types.ParseDifficulty(offer.Difficulty)

	quest := &types.Quest{
		ID:          uuid.NewString(),
		UserID:      userID,
		CharacterID: characterID,
		Title:       offer.Title,
		Description: offer.Description,
		Difficulty:  difficulty,
		Status:      types.QuestOffered,
		Progress:    0,
		Objectives:  []map[string]interface{}{},
		Rewards:     types.RewardsForDifficulty(difficulty),
	}

	if err := e.store.StoreQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to create quest: %w", err)
	}

	e.publish("quest_offered", quest)
	return quest, nil
}

// GetQuest retrieves a quest, enforcing that it belongs to the given user.
func (e *Engine) GetQuest(ctx context.Context, questID, userID string) (*types.Quest, error) {
	quest, err := e.store.GetQuest(ctx, questID)
	if err != nil {
		return nil, err
	}
	if quest.UserID != userID {
		return nil, ErrNotOwner
	}
	return quest, nil
}

// ListUserQuests returns a user's quests newest first, optionally filtered
// by status.
func (e *Engine) ListUserQuests(ctx context.Context, userID string, status types.QuestStatus) ([]*types.Quest, error) {
	return e.store.ListUserQuests(ctx, userID, storage.QuestFilter{Status: string(status)})
}

// AcceptQuest moves a quest from offered to active. Any other starting status
// is rejected.
func (e *Engine) AcceptQuest(ctx context.Context, questID, userID string) (*types.Quest, error) {
	quest, err := e.GetQuest(ctx, questID, userID)
	if err != nil {
		return nil, err
	}

	if quest.Status != types.QuestOffered {
		return nil, fmt.Errorf("%w: cannot accept quest in status %q", ErrInvalidTransition, quest.Status)
	}

	quest.Status = types.QuestActive
	if err := e.store.StoreQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to accept quest: %w", err)
	}
	return quest, nil
}

// UpdateQuestProgress sets progress on an active quest. Values clamp to
// [0, 100]; reaching 100 completes the quest.
func (e *Engine) UpdateQuestProgress(ctx context.Context, questID, userID string, progress int) (*types.Quest, error) {
	quest, err := e.GetQuest(ctx, questID, userID)
	if err != nil {
		return nil, err
	}

	if quest.Status != types.QuestActive {
		return nil, fmt.Errorf("%w: quest is not active", ErrInvalidTransition)
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	quest.Progress = progress

	if quest.Progress == 100 {
		quest.Status = types.QuestCompleted
		now := time.Now()
		quest.CompletedAt = &now
	}

	if err := e.store.StoreQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to update quest progress: %w", err)
	}
	return quest, nil
}

// CompleteQuest marks a quest completed from any status. This is the
// narrative escape hatch: a character can declare a quest done regardless of
// tracked progress.
func (e *Engine) CompleteQuest(ctx context.Context, questID, userID string) (*types.Quest, error) {
	quest, err := e.GetQuest(ctx, questID, userID)
	if err != nil {
		return nil, err
	}

	quest.Status = types.QuestCompleted
	quest.Progress = 100
	now := time.Now()
	quest.CompletedAt = &now

	if err := e.store.StoreQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to complete quest: %w", err)
	}
	return quest, nil
}

// AbandonQuest marks a quest abandoned. Completed quests are final and cannot
// be abandoned.
func (e *Engine) AbandonQuest(ctx context.Context, questID, userID string) (*types.Quest, error) {
	quest, err := e.GetQuest(ctx, questID, userID)
	if err != nil {
		return nil, err
	}

	if quest.Status == types.QuestCompleted {
		return nil, fmt.Errorf("%w: cannot abandon a completed quest", ErrInvalidTransition)
	}

	quest.Status = types.QuestAbandoned
	if err := e.store.StoreQuest(ctx, quest); err != nil {
		return nil, fmt.Errorf("failed to abandon quest: %w", err)
	}
	return quest, nil
}
