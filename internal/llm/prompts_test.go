package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/thornquist/loreweaver/pkg/types"
)

func promptCharacter() *types.Character {
	return &types.Character{
		ID:                "char-1",
		Name:              "Elara Moonwhisper",
		Role:              types.RoleMage,
		PersonalityPrompt: "You are Elara, a wise and enigmatic mage.",
		Backstory:         "Raised in the Crystal Tower.",
		Location:          "The Crystal Tower",
		SpeechPatterns:    []string{"speaks in riddles"},
		KnowledgeDomains:  []string{"magic"},
		CurrentMood:       types.Mood{State: "serene", Intensity: 3},
	}
}

func TestBuildCharacterPromptPeacefulRealm(t *testing.T) {
	prompt := BuildCharacterPrompt(promptCharacter(), nil, nil, nil, "Hello")

	if !strings.Contains(prompt, "The realm is peaceful and calm.") {
		t.Error("expected peaceful realm placeholder when no events are active")
	}
	if !strings.Contains(prompt, "This is the beginning of your conversation.") {
		t.Error("expected empty-history marker")
	}
	if !strings.Contains(prompt, "You are Elara Moonwhisper, a mage in a fantasy world.") {
		t.Error("expected character framing line")
	}
	if !strings.Contains(prompt, "User: Hello") {
		t.Error("expected user message in prompt")
	}
}

func TestBuildCharacterPromptWithEvents(t *testing.T) {
	events := []*types.WorldEvent{
		{Name: "Dragon Sighting", Description: "A dragon circles the keep", Severity: types.SeverityHigh},
	}
	prompt := BuildCharacterPrompt(promptCharacter(), nil, events, nil, "What news?")

	if !strings.Contains(prompt, "- Dragon Sighting: A dragon circles the keep (Severity: high)") {
		t.Error("expected event line in world state section")
	}
	if strings.Contains(prompt, "The realm is peaceful and calm.") {
		t.Error("peaceful placeholder should be absent when events exist")
	}
}

func TestBuildCharacterPromptHistoryWindow(t *testing.T) {
	var history []*types.Message
	for i := 0; i < 30; i++ {
		history = append(history, &types.Message{
			Sender:  types.SenderUser,
			Content: fmt.Sprintf("message-%d", i),
		})
	}

	prompt := BuildCharacterPrompt(promptCharacter(), history, nil, nil, "Hello")

	if strings.Contains(prompt, "message-9") {
		t.Error("messages beyond the 20-message window should be excluded")
	}
	if !strings.Contains(prompt, "message-10") || !strings.Contains(prompt, "message-29") {
		t.Error("the trailing 20 messages should be included")
	}
}

func TestBuildCharacterPromptMemorySections(t *testing.T) {
	conversation := &types.Conversation{
		Summary: "The user seeks their lost sister.",
		Metadata: &types.ConversationMetadata{
			UserFacts: []string{"User's name is Alex"},
		},
	}
	prompt := BuildCharacterPrompt(promptCharacter(), nil, nil, conversation, "Hello")

	if !strings.Contains(prompt, "PREVIOUS CONVERSATION SUMMARY:\nThe user seeks their lost sister.") {
		t.Error("expected summary section")
	}
	if !strings.Contains(prompt, "- User's name is Alex") {
		t.Error("expected user facts section")
	}
}

func TestBuildFactExtractionPromptFiltersAndWindows(t *testing.T) {
	var history []*types.Message
	for i := 0; i < 15; i++ {
		history = append(history,
			&types.Message{Sender: types.SenderUser, Content: fmt.Sprintf("user-%d", i)},
			&types.Message{Sender: types.SenderCharacter, Content: fmt.Sprintf("char-%d", i)},
		)
	}

	prompt := BuildFactExtractionPrompt(history)

	if strings.Contains(prompt, "char-") {
		t.Error("character messages should be excluded from fact extraction")
	}
	if strings.Contains(prompt, "user-4") {
		t.Error("user messages beyond the 10-message window should be excluded")
	}
	if !strings.Contains(prompt, "user-5") || !strings.Contains(prompt, "user-14") {
		t.Error("the trailing 10 user messages should be included")
	}
}

func TestBuildSummaryPromptLabelsSenders(t *testing.T) {
	history := []*types.Message{
		{Sender: types.SenderUser, Content: "I am Alex"},
		{Sender: types.SenderCharacter, Content: "Well met, Alex"},
	}

	prompt := BuildSummaryPrompt(history)

	if !strings.Contains(prompt, "User: I am Alex") {
		t.Error("expected user line")
	}
	if !strings.Contains(prompt, "Character: Well met, Alex") {
		t.Error("expected character line")
	}
}
