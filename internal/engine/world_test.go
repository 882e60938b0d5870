package engine

import (
	"context"
	"testing"
	"time"

	"github.com/thornquist/loreweaver/pkg/types"
)

func TestCreateEventPropagatesMoods(t *testing.T) {
	tests := []struct {
		severity      string
		wantState     string
		wantIntensity int
	}{
		{"low", "curious", 5},
		{"medium", "concerned", 6},
		{"high", "alarmed", 8},
		{"critical", "panicked", 10},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			f := newTestEngine(t)
			f.seedCharacter(t, "char-1")
			ctx := context.Background()

			event, err := f.engine.CreateEvent(ctx, CreateEventInput{
				Name:                 "Dragon Sighting",
				Description:          "A dragon circles the keep",
				Severity:             tt.severity,
				AffectedCharacterIDs: []string{"char-1"},
			})
			if err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
			if string(event.Severity) != tt.severity {
				t.Errorf("severity = %q, want %q", event.Severity, tt.severity)
			}

			character, err := f.store.GetCharacter(ctx, "char-1")
			if err != nil {
				t.Fatalf("GetCharacter failed: %v", err)
			}
			if character.CurrentMood.State != tt.wantState {
				t.Errorf("mood state = %q, want %q", character.CurrentMood.State, tt.wantState)
			}
			if character.CurrentMood.Intensity != tt.wantIntensity {
				t.Errorf("mood intensity = %d, want %d", character.CurrentMood.Intensity, tt.wantIntensity)
			}
			if character.CurrentMood.Reason != "Dragon Sighting" {
				t.Errorf("mood reason = %q, want event name", character.CurrentMood.Reason)
			}
		})
	}
}

func TestCreateEventMoodAlwaysOverwrites(t *testing.T) {
	f := newTestEngine(t)
	character := f.seedCharacter(t, "char-1")
	ctx := context.Background()

	// Seed mood has intensity 8; a low severity event (intensity 5) must
	// still overwrite it.
	if character.CurrentMood.Intensity != 8 {
		t.Fatalf("seed mood intensity = %d, want 8", character.CurrentMood.Intensity)
	}

	_, err := f.engine.CreateEvent(ctx, CreateEventInput{
		Name:                 "Strange Lights",
		Description:          "Lights over the hills",
		Severity:             "low",
		AffectedCharacterIDs: []string{"char-1"},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, _ := f.store.GetCharacter(ctx, "char-1")
	if got.CurrentMood.State != "curious" || got.CurrentMood.Intensity != 5 {
		t.Errorf("mood = %+v, want curious/5 overwrite", got.CurrentMood)
	}
}

func TestCreateEventMissingCharacterDoesNotBlock(t *testing.T) {
	f := newTestEngine(t)
	f.seedCharacter(t, "char-real")
	ctx := context.Background()

	event, err := f.engine.CreateEvent(ctx, CreateEventInput{
		Name:                 "The Blight",
		Description:          "Crops wither",
		Severity:             "high",
		AffectedCharacterIDs: []string{"char-ghost", "char-real"},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if !event.IsActive {
		t.Error("event should be active")
	}

	// The real character still got the mood shift.
	got, _ := f.store.GetCharacter(ctx, "char-real")
	if got.CurrentMood.State != "alarmed" {
		t.Errorf("mood state = %q, want alarmed", got.CurrentMood.State)
	}
}

func TestActiveEventsRunsExpiryPass(t *testing.T) {
	f := newTestEngine(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	expired := &types.WorldEvent{
		ID: "evt-old", Name: "Faded Omen", Description: "Long gone",
		Severity: types.SeverityLow, IsActive: true, ExpiresAt: &past,
	}
	if err := f.store.StoreEvent(ctx, expired); err != nil {
		t.Fatalf("StoreEvent failed: %v", err)
	}

	active, err := f.engine.ActiveEvents(ctx)
	if err != nil {
		t.Fatalf("ActiveEvents failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active events = %d, want 0 after expiry pass", len(active))
	}

	// The event still exists, just deactivated.
	all, err := f.engine.AllEvents(ctx)
	if err != nil {
		t.Fatalf("AllEvents failed: %v", err)
	}
	if len(all) != 1 || all[0].IsActive {
		t.Errorf("all events = %+v, want one inactive event", all)
	}
}

func TestGenerateRandomEvent(t *testing.T) {
	f := newTestEngine(t,
		`{"eventName": "The Crimson Eclipse", "description": "The sun darkens", "severity": "critical", "affectedLocations": ["Northern Peaks"]}`)
	ctx := context.Background()

	event, err := f.engine.GenerateRandomEvent(ctx)
	if err != nil {
		t.Fatalf("GenerateRandomEvent failed: %v", err)
	}

	if event.Name != "The Crimson Eclipse" {
		t.Errorf("name = %q", event.Name)
	}
	if event.Severity != types.SeverityCritical {
		t.Errorf("severity = %q, want critical", event.Severity)
	}
	if event.ExpiresAt == nil {
		t.Fatal("expected default 24h expiry")
	}
	remaining := time.Until(*event.ExpiresAt)
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Errorf("expiry %v from now, want about 24h", remaining)
	}
}

func TestGenerateRandomEventPropagatesFailure(t *testing.T) {
	f := newTestEngine(t, "not json at all")

	if _, err := f.engine.GenerateRandomEvent(context.Background()); err == nil {
		t.Error("expected error when generated event is unparseable")
	}
}

func TestDeactivateEvent(t *testing.T) {
	f := newTestEngine(t)
	ctx := context.Background()

	event, err := f.engine.CreateEvent(ctx, CreateEventInput{
		Name: "Market Day", Description: "Crowds gather", Severity: "low",
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := f.engine.DeactivateEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("DeactivateEvent failed: %v", err)
	}
	if got.IsActive {
		t.Error("event should be inactive")
	}

	active, _ := f.engine.ActiveEvents(ctx)
	if len(active) != 0 {
		t.Errorf("active events = %d, want 0", len(active))
	}
}
