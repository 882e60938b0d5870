package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/thornquist/loreweaver/pkg/types"
)

// CreateEventInput describes a new world event. Duration of zero means the
// event never expires.
type CreateEventInput struct {
	Name                 string
	Description          string
	Severity             string
	AffectedLocations    []string
	AffectedCharacterIDs []string
	Duration             time.Duration
}

// ActiveEvents returns the currently active world events, newest first. Every
// call runs an expiry pass first, so an event past its expiry is never
// observable as active.
func (e *Engine) ActiveEvents(ctx context.Context) ([]*types.WorldEvent, error) {
	if _, err := e.store.ExpireEvents(ctx); err != nil {
		return nil, fmt.Errorf("failed to expire events: %w", err)
	}
	return e.store.ListActiveEvents(ctx)
}

// AllEvents returns every world event, active or not, newest first.
func (e *Engine) AllEvents(ctx context.Context) ([]*types.WorldEvent, error) {
	return e.store.ListAllEvents(ctx)
}

// CreateEvent records a world event and propagates mood shifts to the
// affected characters. Mood propagation is best-effort per character: one
// missing character never blocks the event or the other characters' updates.
func (e *Engine) CreateEvent(ctx context.Context, input CreateEventInput) (*types.WorldEvent, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("event name is required")
	}

	event := &types.WorldEvent{
		ID:                   uuid.NewString(),
		Name:                 input.Name,
		Description:          input.Description,
		Severity:             types.ParseSeverity(input.Severity),
		AffectedLocations:    input.AffectedLocations,
		AffectedCharacterIDs: input.AffectedCharacterIDs,
		IsActive:             true,
	}
	if input.Duration > 0 {
		expires := time.Now().Add(input.Duration)
		event.ExpiresAt = &expires
	}

	if err := e.store.StoreEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	e.propagateEventMoods(ctx, event)
	e.publish("world_event", event)

	return event, nil
}

// GenerateRandomEvent asks the narrator to invent a world event and records
// it with the default duration.
func (e *Engine) GenerateRandomEvent(ctx context.Context) (*types.WorldEvent, error) {
	generated, err := e.narrator.GenerateWorldEvent(ctx)
	if err != nil {
		return nil, err
	}

	return e.CreateEvent(ctx, CreateEventInput{
		Name:              generated.EventName,
		Description:       generated.Description,
		Severity:          generated.Severity,
		AffectedLocations: generated.AffectedLocations,
		Duration:          e.config.DefaultEventDuration,
	})
}

// DeactivateEvent retires an event before its natural expiry.
func (e *Engine) DeactivateEvent(ctx context.Context, eventID string) (*types.WorldEvent, error) {
	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	event.IsActive = false
	if err := e.store.StoreEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to deactivate event: %w", err)
	}
	return event, nil
}

// propagateEventMoods shifts each affected character's mood according to the
// event severity, with the event name as the reason. The new mood always
// overwrites the old one, even at lower intensity.
func (e *Engine) propagateEventMoods(ctx context.Context, event *types.WorldEvent) {
	if len(event.AffectedCharacterIDs) == 0 {
		return
	}

	mood := types.MoodForSeverity(event.Severity)
	mood.Reason = event.Name

	for _, characterID := range event.AffectedCharacterIDs {
		if err := e.UpdateCharacterMood(ctx, characterID, mood); err != nil {
			log.Printf("engine: failed to update mood for character %s: %v", characterID, err)
		}
	}
}
