package seed

import (
	"context"
	"testing"

	"github.com/thornquist/loreweaver/internal/storage/sqlite"
	"github.com/thornquist/loreweaver/pkg/types"
)

func TestRosterParses(t *testing.T) {
	characters, err := Roster()
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if len(characters) != 4 {
		t.Fatalf("roster = %d characters, want 4", len(characters))
	}

	byName := map[string]*types.Character{}
	for _, c := range characters {
		byName[c.Name] = c
		if c.ID == "" || c.PersonalityPrompt == "" || c.Location == "" {
			t.Errorf("character %q missing required fields", c.Name)
		}
		if !c.IsActive {
			t.Errorf("character %q should be active", c.Name)
		}
		if len(c.SpeechPatterns) == 0 || len(c.KnowledgeDomains) == 0 {
			t.Errorf("character %q missing voice data", c.Name)
		}
	}

	elara, ok := byName["Elara the Mystic"]
	if !ok {
		t.Fatal("roster missing Elara the Mystic")
	}
	if elara.Role != types.RoleMage {
		t.Errorf("Elara role = %q, want mage", elara.Role)
	}
	if elara.CurrentMood.State != "contemplative" || elara.CurrentMood.Intensity != 6 {
		t.Errorf("Elara mood = %+v", elara.CurrentMood)
	}

	if borin := byName["Borin Ironfoot"]; borin == nil || borin.Role != types.RoleMerchant {
		t.Error("roster missing Borin Ironfoot as merchant")
	}
	if shade := byName["Shade"]; shade == nil || shade.Role != types.RoleRogue {
		t.Error("roster missing Shade as rogue")
	}
	if thorne := byName["Captain Thorne"]; thorne == nil || thorne.Role != types.RoleWarrior {
		t.Error("roster missing Captain Thorne as warrior")
	}
}

func TestCharactersSeedsIdempotently(t *testing.T) {
	store, err := sqlite.NewWorldStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, err := Characters(ctx, store); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if _, err := Characters(ctx, store); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	characters, err := store.ListCharacters(ctx)
	if err != nil {
		t.Fatalf("ListCharacters failed: %v", err)
	}
	if len(characters) != 4 {
		t.Errorf("characters after double seed = %d, want 4", len(characters))
	}
}
