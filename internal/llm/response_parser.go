package llm

import (
	"encoding/json"
	"strings"
)

// QuestOffer is the optional quest block a character may attach to a reply.
type QuestOffer struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

// CharacterReply is the structured form of a character's conversational turn.
type CharacterReply struct {
	Message     string      `json:"message"`
	Mood        string      `json:"mood,omitempty"`
	ActionTaken string      `json:"actionTaken,omitempty"`
	QuestOffered *QuestOffer `json:"questOffered,omitempty"`
}

// WorldEventResponse is the structured form of a generated world event.
type WorldEventResponse struct {
	EventName         string   `json:"eventName"`
	Description       string   `json:"description"`
	Severity          string   `json:"severity"`
	AffectedLocations []string `json:"affectedLocations"`
}

// extractJSON extracts the first valid JSON object from a string that may
// contain extra text. This handles cases where LLMs add explanations
// before/after the JSON despite instructions.
func extractJSON(text string) string {
	// Remove common markdown code block markers
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return text // no JSON found, return as-is and let parser fail
	}

	// Find the matching closing brace
	braceCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		// Only count braces outside of strings
		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text[start:]
}

// extractJSONArray extracts the first valid JSON array from a string,
// applying the same fence stripping and bracket matching as extractJSON.
func extractJSONArray(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	if start == -1 {
		return text
	}

	bracketCount := 0
	inString := false
	escape := false

	for i := start; i < len(text); i++ {
		char := text[i]

		if escape {
			escape = false
			continue
		}
		if char == '\\' {
			escape = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '[':
				bracketCount++
			case ']':
				bracketCount--
				if bracketCount == 0 {
					return text[start : i+1]
				}
			}
		}
	}

	return text[start:]
}

// ParseCharacterReply parses a raw completion into a CharacterReply. When the
// output contains no parseable JSON, the raw text becomes the message with a
// neutral mood so the turn still completes.
func ParseCharacterReply(raw string) *CharacterReply {
	var reply CharacterReply
	if err := json.Unmarshal([]byte(extractJSON(raw)), &reply); err != nil || reply.Message == "" {
		return &CharacterReply{
			Message: strings.TrimSpace(raw),
			Mood:    "neutral",
		}
	}
	return &reply
}

// ParseWorldEvent parses a raw completion into a WorldEventResponse. Unlike
// character replies there is no sensible degraded form, so parse failures
// surface as errors.
func ParseWorldEvent(raw string) (*WorldEventResponse, error) {
	var event WorldEventResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ParseFacts parses a raw completion into a string array of user facts.
func ParseFacts(raw string) ([]string, error) {
	var facts []string
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &facts); err != nil {
		return nil, err
	}
	return facts, nil
}
