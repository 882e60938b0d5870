package llm

import (
	"reflect"
	"testing"
)

func TestParseCharacterReply(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMessage string
		wantMood    string
		wantQuest   bool
	}{
		{
			name:        "clean JSON",
			raw:         `{"message": "Greetings, traveler.", "mood": "curious"}`,
			wantMessage: "Greetings, traveler.",
			wantMood:    "curious",
		},
		{
			name:        "fenced JSON with preamble",
			raw:         "Here is my response:\n```json\n{\"message\": \"Well met.\", \"mood\": \"happy\"}\n```",
			wantMessage: "Well met.",
			wantMood:    "happy",
		},
		{
			name: "quest offer included",
			raw: `{"message": "I have a task for you.", "mood": "mysterious",
				"questOffered": {"title": "The Lost Amulet", "description": "Find it", "difficulty": "hard"}}`,
			wantMessage: "I have a task for you.",
			wantMood:    "mysterious",
			wantQuest:   true,
		},
		{
			name:        "braces inside strings",
			raw:         `{"message": "The rune reads {ancient}", "mood": "mysterious"}`,
			wantMessage: "The rune reads {ancient}",
			wantMood:    "mysterious",
		},
		{
			name:        "plain text degrades to neutral",
			raw:         "The old man simply nods at you.",
			wantMessage: "The old man simply nods at you.",
			wantMood:    "neutral",
		},
		{
			name:        "malformed JSON degrades to raw text",
			raw:         `{"message": "broken`,
			wantMessage: `{"message": "broken`,
			wantMood:    "neutral",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := ParseCharacterReply(tt.raw)
			if reply.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", reply.Message, tt.wantMessage)
			}
			if reply.Mood != tt.wantMood {
				t.Errorf("mood = %q, want %q", reply.Mood, tt.wantMood)
			}
			if (reply.QuestOffered != nil) != tt.wantQuest {
				t.Errorf("quest offered = %v, want %v", reply.QuestOffered != nil, tt.wantQuest)
			}
		})
	}
}

func TestParseWorldEvent(t *testing.T) {
	raw := "```json\n" + `{
		"eventName": "The Crimson Eclipse",
		"description": "The sun darkens over the northern peaks",
		"severity": "high",
		"affectedLocations": ["Northern Peaks", "Frosthold"]
	}` + "\n```"

	event, err := ParseWorldEvent(raw)
	if err != nil {
		t.Fatalf("ParseWorldEvent failed: %v", err)
	}
	if event.EventName != "The Crimson Eclipse" {
		t.Errorf("event name = %q", event.EventName)
	}
	if event.Severity != "high" {
		t.Errorf("severity = %q, want high", event.Severity)
	}
	if len(event.AffectedLocations) != 2 {
		t.Errorf("locations = %v, want 2 entries", event.AffectedLocations)
	}
}

func TestParseWorldEventMalformed(t *testing.T) {
	if _, err := ParseWorldEvent("no event today"); err == nil {
		t.Error("expected error for unparseable world event")
	}
}

func TestParseFacts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "clean array",
			raw:  `["User's name is Alex", "User prefers magic over combat"]`,
			want: []string{"User's name is Alex", "User prefers magic over combat"},
		},
		{
			name: "fenced array with preamble",
			raw:  "Facts:\n```json\n[\"User is looking for their lost sister\"]\n```",
			want: []string{"User is looking for their lost sister"},
		},
		{
			name: "empty array",
			raw:  `[]`,
			want: []string{},
		},
		{
			name:    "not an array",
			raw:     "I could not find any facts.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts, err := ParseFacts(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFacts failed: %v", err)
			}
			if !reflect.DeepEqual(facts, tt.want) {
				t.Errorf("facts = %v, want %v", facts, tt.want)
			}
		})
	}
}

func TestExtractJSONBraceMatching(t *testing.T) {
	raw := `prefix {"a": "b {not a brace}", "c": {"d": 1}} suffix {"extra": true}`
	got := extractJSON(raw)
	want := `{"a": "b {not a brace}", "c": {"d": 1}}`
	if got != want {
		t.Errorf("extractJSON = %q, want %q", got, want)
	}
}
