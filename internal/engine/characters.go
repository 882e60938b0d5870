package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/thornquist/loreweaver/pkg/types"
)

// CreateCharacter stores a new character, assigning an ID when absent.
func (e *Engine) CreateCharacter(ctx context.Context, character *types.Character) (*types.Character, error) {
	if character.ID == "" {
		character.ID = uuid.NewString()
	}
	character.IsActive = true

	if err := e.store.StoreCharacter(ctx, character); err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return character, nil
}

// GetCharacter retrieves a character by ID.
func (e *Engine) GetCharacter(ctx context.Context, id string) (*types.Character, error) {
	return e.store.GetCharacter(ctx, id)
}

// ListCharacters returns all active characters.
func (e *Engine) ListCharacters(ctx context.Context) ([]*types.Character, error) {
	return e.store.ListCharacters(ctx)
}

// UpdateCharacterMood overwrites a character's mood. Moods have no history;
// the latest write wins regardless of source.
func (e *Engine) UpdateCharacterMood(ctx context.Context, id string, mood types.Mood) error {
	if err := e.store.UpdateCharacterMood(ctx, id, mood); err != nil {
		return err
	}

	e.publish("mood_change", map[string]interface{}{
		"characterId": id,
		"mood":        mood,
	})
	return nil
}
