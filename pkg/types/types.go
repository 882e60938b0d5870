// Package types defines the core data structures for the Loreweaver world
// simulation: characters, conversations, messages, quests, and world events.
// Enum-like string types carry explicit parse helpers with defined defaults
// because several of them arrive as free text from the generation backend.
package types

import "strings"

// SenderType identifies who authored a message.
type SenderType string

const (
	// SenderUser marks a message written by the human user.
	SenderUser SenderType = "user"

	// SenderCharacter marks a message written by the AI-controlled character.
	SenderCharacter SenderType = "character"
)

// QuestStatus represents a quest's position in its lifecycle state machine.
type QuestStatus string

const (
	// QuestOffered indicates the quest was offered but not yet accepted.
	QuestOffered QuestStatus = "offered"

	// QuestActive indicates the quest was accepted and is in progress.
	QuestActive QuestStatus = "active"

	// QuestCompleted is a terminal state. Completed quests cannot be abandoned.
	QuestCompleted QuestStatus = "completed"

	// QuestAbandoned is a terminal state reachable from any non-completed state.
	QuestAbandoned QuestStatus = "abandoned"
)

// QuestDifficulty grades a quest. Rewards are derived from it at creation time.
type QuestDifficulty string

const (
	DifficultyEasy      QuestDifficulty = "easy"
	DifficultyMedium    QuestDifficulty = "medium"
	DifficultyHard      QuestDifficulty = "hard"
	DifficultyLegendary QuestDifficulty = "legendary"
)

// EventSeverity grades a world event and drives mood propagation.
type EventSeverity string

const (
	SeverityLow      EventSeverity = "low"
	SeverityMedium   EventSeverity = "medium"
	SeverityHigh     EventSeverity = "high"
	SeverityCritical EventSeverity = "critical"
)

// CharacterRole classifies a character's archetype in the world.
type CharacterRole string

const (
	RoleWarrior  CharacterRole = "warrior"
	RoleMage     CharacterRole = "mage"
	RoleHealer   CharacterRole = "healer"
	RoleRogue    CharacterRole = "rogue"
	RoleArcher   CharacterRole = "archer"
	RoleMerchant CharacterRole = "merchant"
	RoleVillager CharacterRole = "villager"
	RoleKing     CharacterRole = "king"
	RoleQueen    CharacterRole = "queen"
	RoleCustom   CharacterRole = "custom"
)

// ValidQuestStatuses is a slice of all valid quest statuses for validation.
var ValidQuestStatuses = []QuestStatus{
	QuestOffered,
	QuestActive,
	QuestCompleted,
	QuestAbandoned,
}

// IsValidQuestStatus checks if the given quest status is valid.
func IsValidQuestStatus(status QuestStatus) bool {
	for _, valid := range ValidQuestStatuses {
		if valid == status {
			return true
		}
	}
	return false
}

// ParseDifficulty maps a free-text difficulty string (typically produced by
// the generation backend) to the canonical enum. Unrecognized values map to
// DifficultyMedium; external free text is never trusted as a direct enum value.
func ParseDifficulty(s string) QuestDifficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	case "legendary":
		return DifficultyLegendary
	default:
		return DifficultyMedium
	}
}

// ParseSeverity maps a free-text severity string to the canonical enum,
// defaulting to SeverityMedium for unrecognized values.
func ParseSeverity(s string) EventSeverity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow
	case "medium":
		return SeverityMedium
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

// ParseRole maps a free-text role string to the canonical enum, defaulting
// to RoleCustom for unrecognized values.
func ParseRole(s string) CharacterRole {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warrior":
		return RoleWarrior
	case "mage":
		return RoleMage
	case "healer":
		return RoleHealer
	case "rogue":
		return RoleRogue
	case "archer":
		return RoleArcher
	case "merchant":
		return RoleMerchant
	case "villager":
		return RoleVillager
	case "king":
		return RoleKing
	case "queen":
		return RoleQueen
	default:
		return RoleCustom
	}
}

// RewardsForDifficulty returns the fixed reward table entry for a difficulty.
// Rewards are computed once at quest creation and never recomputed afterwards,
// so callers receive a fresh copy they own.
func RewardsForDifficulty(difficulty QuestDifficulty) map[string]interface{} {
	var rewards map[string]interface{}
	switch difficulty {
	case DifficultyEasy:
		rewards = map[string]interface{}{
			"experiencePoints": 100,
			"items":            []string{"Minor Health Potion"},
		}
	case DifficultyHard:
		rewards = map[string]interface{}{
			"experiencePoints": 500,
			"items":            []string{"Greater Health Potion", "150 Gold", "Rare Artifact"},
		}
	case DifficultyLegendary:
		rewards = map[string]interface{}{
			"experiencePoints": 1000,
			"items":            []string{"Legendary Item", "500 Gold", "Epic Artifact"},
			"title":            "Hero of the Realm",
		}
	default:
		rewards = map[string]interface{}{
			"experiencePoints": 250,
			"items":            []string{"Health Potion", "50 Gold"},
		}
	}
	return rewards
}

// MoodForSeverity returns the fixed mood (state, intensity) pair a world
// event of the given severity imposes on affected characters.
func MoodForSeverity(severity EventSeverity) Mood {
	switch severity {
	case SeverityLow:
		return Mood{State: "curious", Intensity: 5}
	case SeverityHigh:
		return Mood{State: "alarmed", Intensity: 8}
	case SeverityCritical:
		return Mood{State: "panicked", Intensity: 10}
	default:
		return Mood{State: "concerned", Intensity: 6}
	}
}
