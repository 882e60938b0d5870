package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/thornquist/loreweaver/internal/engine"
	"github.com/thornquist/loreweaver/internal/llm"
	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

// APIHandlers contains HTTP handlers for the REST API.
type APIHandlers struct {
	engine *engine.Engine
}

// NewAPIHandlers creates a new APIHandlers instance.
func NewAPIHandlers(eng *engine.Engine) *APIHandlers {
	return &APIHandlers{engine: eng}
}

// ListCharacters handles GET /api/characters - list all active characters.
func (h *APIHandlers) ListCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.engine.ListCharacters(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list characters", err)
		return
	}
	respondJSON(w, http.StatusOK, characters)
}

// GetCharacter handles GET /api/characters/{id}.
func (h *APIHandlers) GetCharacter(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "character ID is required", nil)
		return
	}

	character, err := h.engine.GetCharacter(r.Context(), id)
	if err != nil {
		respondError(w, statusForError(err), "failed to get character", err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}

// CreateCharacter handles POST /api/characters.
func (h *APIHandlers) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var character types.Character
	if err := json.NewDecoder(r.Body).Decode(&character); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.engine.CreateCharacter(r.Context(), &character)
	if err != nil {
		respondError(w, statusForError(err), "failed to create character", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateCharacterMood handles PUT /api/characters/{id}/mood.
func (h *APIHandlers) UpdateCharacterMood(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "character ID is required", nil)
		return
	}

	var req MoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	mood := types.Mood{State: req.State, Intensity: req.Intensity, Reason: req.Reason}
	if err := h.engine.UpdateCharacterMood(r.Context(), id, mood); err != nil {
		respondError(w, statusForError(err), "failed to update mood", err)
		return
	}

	character, err := h.engine.GetCharacter(r.Context(), id)
	if err != nil {
		respondError(w, statusForError(err), "failed to get character", err)
		return
	}
	respondJSON(w, http.StatusOK, character)
}

// StartConversation handles POST /api/conversations - returns the active
// conversation for the user/character pair, creating one if needed.
func (h *APIHandlers) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.CharacterID == "" {
		respondError(w, http.StatusBadRequest, "character_id is required", nil)
		return
	}

	conversation, err := h.engine.StartConversation(r.Context(), userID, req.CharacterID)
	if err != nil {
		respondError(w, statusForError(err), "failed to start conversation", err)
		return
	}
	respondJSON(w, http.StatusOK, conversation)
}

// ListConversations handles GET /api/conversations - the user's conversations,
// most recently active first.
func (h *APIHandlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	conversations, err := h.engine.ListUserConversations(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list conversations", err)
		return
	}
	respondJSON(w, http.StatusOK, conversations)
}

// GetConversation handles GET /api/conversations/{id}.
func (h *APIHandlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "conversation ID is required", nil)
		return
	}

	conversation, err := h.engine.GetConversation(r.Context(), id, userID)
	if err != nil {
		respondError(w, statusForError(err), "failed to get conversation", err)
		return
	}
	respondJSON(w, http.StatusOK, conversation)
}

// GetMessages handles GET /api/conversations/{id}/messages - messages in
// chronological order, optionally limited via ?limit=N.
func (h *APIHandlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "conversation ID is required", nil)
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 0)
	messages, err := h.engine.GetMessages(r.Context(), id, userID, limit)
	if err != nil {
		respondError(w, statusForError(err), "failed to get messages", err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// SendMessage handles POST /api/conversations/{id}/messages - run a full
// conversation turn. When generation fails the user's message has already been
// stored; the error response carries that partial result in its details.
func (h *APIHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "conversation ID is required", nil)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.engine.SendMessage(r.Context(), id, userID, req.Content)
	if err != nil {
		status := statusForError(err)
		errResp := ErrorResponse{
			Error: "failed to send message",
			Code:  http.StatusText(status),
			Details: map[string]interface{}{
				"error": err.Error(),
			},
		}
		if result != nil && result.UserMessage != nil {
			errResp.Details["user_message"] = result.UserMessage
		}
		respondJSON(w, status, errResp)
		return
	}

	respondJSON(w, http.StatusOK, TurnResponse{
		UserMessage: result.UserMessage,
		Reply:       result.Reply,
		SideEffects: TurnSideEffectsBody{
			QuestOffered: result.SideEffects.QuestOffered,
			MoodUpdated:  result.SideEffects.MoodUpdated,
			Summarized:   result.SideEffects.Summarized,
		},
		Warnings: result.Warnings,
	})
}

// ListQuests handles GET /api/quests - the user's quests, optionally filtered
// via ?status=active.
func (h *APIHandlers) ListQuests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	status := types.QuestStatus(r.URL.Query().Get("status"))
	quests, err := h.engine.ListUserQuests(r.Context(), userID, status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list quests", err)
		return
	}
	respondJSON(w, http.StatusOK, quests)
}

// GetQuest handles GET /api/quests/{id}.
func (h *APIHandlers) GetQuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "quest ID is required", nil)
		return
	}

	quest, err := h.engine.GetQuest(r.Context(), id, userID)
	if err != nil {
		respondError(w, statusForError(err), "failed to get quest", err)
		return
	}
	respondJSON(w, http.StatusOK, quest)
}

// AcceptQuest handles POST /api/quests/{id}/accept.
func (h *APIHandlers) AcceptQuest(w http.ResponseWriter, r *http.Request) {
	h.questTransition(w, r, "failed to accept quest", h.engine.AcceptQuest)
}

// CompleteQuest handles POST /api/quests/{id}/complete.
func (h *APIHandlers) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	h.questTransition(w, r, "failed to complete quest", h.engine.CompleteQuest)
}

// AbandonQuest handles POST /api/quests/{id}/abandon.
func (h *APIHandlers) AbandonQuest(w http.ResponseWriter, r *http.Request) {
	h.questTransition(w, r, "failed to abandon quest", h.engine.AbandonQuest)
}

// UpdateQuestProgress handles POST /api/quests/{id}/progress.
func (h *APIHandlers) UpdateQuestProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "quest ID is required", nil)
		return
	}

	var req QuestProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	quest, err := h.engine.UpdateQuestProgress(r.Context(), id, userID, req.Progress)
	if err != nil {
		respondError(w, statusForError(err), "failed to update quest progress", err)
		return
	}
	respondJSON(w, http.StatusOK, quest)
}

// ListActiveEvents handles GET /api/world/events - active events, newest first.
func (h *APIHandlers) ListActiveEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.engine.ActiveEvents(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list events", err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// ListAllEvents handles GET /api/world/events/all - full event history.
func (h *APIHandlers) ListAllEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.engine.AllEvents(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list events", err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /api/world/events.
func (h *APIHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	event, err := h.engine.CreateEvent(r.Context(), engine.CreateEventInput{
		Name:                 req.Name,
		Description:          req.Description,
		Severity:             req.Severity,
		AffectedLocations:    req.AffectedLocations,
		AffectedCharacterIDs: req.AffectedCharacterIDs,
		Duration:             hoursToDuration(req.DurationHours),
	})
	if err != nil {
		respondError(w, statusForError(err), "failed to create event", err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// GenerateEvent handles POST /api/world/events/generate - ask the narrator to
// invent a new world event.
func (h *APIHandlers) GenerateEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.engine.GenerateRandomEvent(r.Context())
	if err != nil {
		respondError(w, statusForError(err), "failed to generate event", err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// DeactivateEvent handles POST /api/world/events/{id}/deactivate.
func (h *APIHandlers) DeactivateEvent(w http.ResponseWriter, r *http.Request) {
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "event ID is required", nil)
		return
	}

	event, err := h.engine.DeactivateEvent(r.Context(), id)
	if err != nil {
		respondError(w, statusForError(err), "failed to deactivate event", err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (h *APIHandlers) questTransition(w http.ResponseWriter, r *http.Request, message string,
	transition func(ctx context.Context, questID, userID string) (*types.Quest, error)) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	id := extractID(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "quest ID is required", nil)
		return
	}

	quest, err := transition(r.Context(), id, userID)
	if err != nil {
		respondError(w, statusForError(err), message, err)
		return
	}
	respondJSON(w, http.StatusOK, quest)
}

// hoursToDuration converts a fractional hour count to a duration. Zero means
// the event never expires.
func hoursToDuration(hours float64) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours * float64(time.Hour))
}

// requestUserID extracts the authenticated user's ID from the X-User-ID
// header. Credential checks happen upstream; this server only needs a stable
// identity per request.
func requestUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "X-User-ID header is required", nil)
		return "", false
	}
	return userID, true
}

// statusForError maps engine and storage errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidInput):
		return http.StatusBadRequest
	// Foreign-owned resources read as missing so the API never confirms
	// that another user's conversation or quest exists.
	case errors.Is(err, engine.ErrNotOwner):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, llm.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// extractID extracts a path parameter from the request.
func extractID(r *http.Request, key string) string {
	return r.PathValue(key)
}

// parseInt parses an integer from a string, returning defaultValue if parsing fails.
func parseInt(s string, defaultValue int) int {
	if s == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// If encoding fails, log but don't try to write another response
		// (headers already sent)
		fmt.Printf("failed to encode JSON response: %v\n", err)
	}
}

// respondError writes an error response with the given status code.
func respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	errResp := ErrorResponse{
		Error: message,
		Code:  http.StatusText(statusCode),
	}

	if err != nil {
		errResp.Details = map[string]interface{}{
			"error": err.Error(),
		}
	}

	respondJSON(w, statusCode, errResp)
}
