package types

import (
	"testing"
	"time"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  QuestDifficulty
	}{
		{"exact match", "easy", DifficultyEasy},
		{"uppercase", "LEGENDARY", DifficultyLegendary},
		{"mixed case with spaces", "  Hard ", DifficultyHard},
		{"unrecognized defaults to medium", "impossible", DifficultyMedium},
		{"empty defaults to medium", "", DifficultyMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDifficulty(tt.input); got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  EventSeverity
	}{
		{"low", "low", SeverityLow},
		{"critical uppercase", "CRITICAL", SeverityCritical},
		{"unrecognized defaults to medium", "apocalyptic", SeverityMedium},
		{"empty defaults to medium", "", SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSeverity(tt.input); got != tt.want {
				t.Errorf("ParseSeverity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRewardsForDifficulty(t *testing.T) {
	easy := RewardsForDifficulty(DifficultyEasy)
	if easy["experiencePoints"] != 100 {
		t.Errorf("easy experiencePoints = %v, want 100", easy["experiencePoints"])
	}

	legendary := RewardsForDifficulty(DifficultyLegendary)
	if legendary["title"] != "Hero of the Realm" {
		t.Errorf("legendary title = %v, want Hero of the Realm", legendary["title"])
	}

	// Each call returns a fresh map; mutating one must not leak into the table.
	easy["experiencePoints"] = 9999
	again := RewardsForDifficulty(DifficultyEasy)
	if again["experiencePoints"] != 100 {
		t.Error("reward table was mutated by a caller")
	}
}

func TestMoodForSeverity(t *testing.T) {
	tests := []struct {
		severity      EventSeverity
		wantState     string
		wantIntensity int
	}{
		{SeverityLow, "curious", 5},
		{SeverityMedium, "concerned", 6},
		{SeverityHigh, "alarmed", 8},
		{SeverityCritical, "panicked", 10},
	}

	for _, tt := range tests {
		got := MoodForSeverity(tt.severity)
		if got.State != tt.wantState || got.Intensity != tt.wantIntensity {
			t.Errorf("MoodForSeverity(%s) = {%s %d}, want {%s %d}",
				tt.severity, got.State, got.Intensity, tt.wantState, tt.wantIntensity)
		}
	}
}

func TestMergeUserFacts(t *testing.T) {
	meta := ConversationMetadata{UserFacts: []string{"A"}}

	meta.MergeUserFacts([]string{"A", "B"})
	if len(meta.UserFacts) != 2 || meta.UserFacts[0] != "A" || meta.UserFacts[1] != "B" {
		t.Errorf("merged facts = %v, want [A B]", meta.UserFacts)
	}

	// Repeated merges never duplicate and never shrink.
	meta.MergeUserFacts([]string{"B", "", "C"})
	if len(meta.UserFacts) != 3 || meta.UserFacts[2] != "C" {
		t.Errorf("merged facts = %v, want [A B C]", meta.UserFacts)
	}
}

func TestWorldEventActive(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		event WorldEvent
		want  bool
	}{
		{"active without expiry", WorldEvent{IsActive: true}, true},
		{"active with future expiry", WorldEvent{IsActive: true, ExpiresAt: &future}, true},
		{"flag still set but expired", WorldEvent{IsActive: true, ExpiresAt: &past}, false},
		{"deactivated", WorldEvent{IsActive: false, ExpiresAt: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Active(now); got != tt.want {
				t.Errorf("Active() = %v, want %v", got, tt.want)
			}
		})
	}
}
