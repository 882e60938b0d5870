package types

import "time"

// Quest is a user's quest instance, offered by a character during a
// conversation. Status transitions follow a strict state machine:
//
//	Offered → Active → {Completed | Abandoned}
//
// with Active → Completed also reachable by progress hitting 100.
// Rewards are computed from difficulty at creation time and are immutable
// thereafter, even if difficulty were later edited.
type Quest struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CharacterID string `json:"character_id"`

	Title       string          `json:"title"`
	Description string          `json:"description"`
	Difficulty  QuestDifficulty `json:"difficulty"`
	Status      QuestStatus     `json:"status"`

	// Progress is clamped to [0,100]; reaching 100 forces Completed.
	Progress int `json:"progress"`

	// Objectives is an ordered list of open-ended objective records.
	Objectives []map[string]interface{} `json:"objectives"`

	// Rewards is an opaque key/value blob from the fixed difficulty table.
	Rewards map[string]interface{} `json:"rewards"`

	// CompletedAt is set exactly once, when the quest reaches Completed.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
