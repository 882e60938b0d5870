package handlers

import (
	"github.com/thornquist/loreweaver/pkg/types"
)

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StartConversationRequest is the request format for POST /api/conversations.
type StartConversationRequest struct {
	CharacterID string `json:"character_id"`
}

// SendMessageRequest is the request format for POST /api/conversations/{id}/messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// TurnResponse is the response format for a conversation turn. SideEffects
// reports what the turn triggered beyond the reply itself; Warnings lists
// best-effort steps that failed without aborting the turn.
type TurnResponse struct {
	UserMessage *types.Message      `json:"user_message"`
	Reply       *types.Message      `json:"reply,omitempty"`
	SideEffects TurnSideEffectsBody `json:"side_effects"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// TurnSideEffectsBody mirrors the engine's side-effect report on the wire.
type TurnSideEffectsBody struct {
	QuestOffered *types.Quest `json:"quest_offered,omitempty"`
	MoodUpdated  *types.Mood  `json:"mood_updated,omitempty"`
	Summarized   bool         `json:"summarized"`
}

// QuestProgressRequest is the request format for POST /api/quests/{id}/progress.
type QuestProgressRequest struct {
	Progress int `json:"progress"`
}

// CreateEventRequest is the request format for POST /api/world/events.
type CreateEventRequest struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Severity             string   `json:"severity"`
	AffectedLocations    []string `json:"affected_locations,omitempty"`
	AffectedCharacterIDs []string `json:"affected_character_ids,omitempty"`
	DurationHours        float64  `json:"duration_hours,omitempty"`
}

// MoodRequest is the request format for PUT /api/characters/{id}/mood.
type MoodRequest struct {
	State     string `json:"state"`
	Intensity int    `json:"intensity"`
	Reason    string `json:"reason,omitempty"`
}
