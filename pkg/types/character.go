package types

import "time"

// Mood is a character's current emotional state. It is always overwritten as
// a whole (last write wins); mood changes are never blended with prior state.
type Mood struct {
	// State is a free-form emotional label (e.g. "cheerful", "panicked").
	State string `json:"state"`

	// Intensity grades the mood from 1 (faint) to 10 (overwhelming).
	Intensity int `json:"intensity"`

	// Reason optionally records what caused the mood (event name,
	// "Conversation interaction", etc.).
	Reason string `json:"reason,omitempty"`
}

// Character is an AI-controlled inhabitant of the world. Only CurrentMood is
// mutable after creation; everything else is fixed at seed time.
type Character struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Role        CharacterRole `json:"role"`
	Description string        `json:"description,omitempty"`

	// PersonalityPrompt and Backstory drive the generation backend's framing
	// block; they are authored text, not derived data.
	PersonalityPrompt string `json:"personality_prompt,omitempty"`
	Backstory         string `json:"backstory,omitempty"`

	Location string `json:"location,omitempty"`

	// SpeechPatterns is an ordered list of stylistic instructions.
	SpeechPatterns []string `json:"speech_patterns,omitempty"`

	// KnowledgeDomains is the set of topics the character is versed in.
	KnowledgeDomains []string `json:"knowledge_domains,omitempty"`

	CurrentMood Mood `json:"current_mood"`

	Alignment        string `json:"alignment,omitempty"`
	Race             string `json:"race,omitempty"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experience_points"`
	AvatarURL        string `json:"avatar_url,omitempty"`
	IsActive         bool   `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
