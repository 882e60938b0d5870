package types

import "time"

// WorldEvent is a time-boxed happening in the world that feeds back into
// character behavior through mood propagation and prompt framing.
type WorldEvent struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Severity    EventSeverity `json:"severity"`

	// AffectedLocations is the set of place names the event touches.
	AffectedLocations []string `json:"affected_locations"`

	// AffectedCharacterIDs lists characters whose mood the event overwrites
	// at creation time.
	AffectedCharacterIDs []string `json:"affected_character_ids"`

	IsActive bool `json:"is_active"`

	// ExpiresAt is the absolute expiry; nil means the event never expires.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the event is live at the given instant. An event
// whose expiry is in the past reads as inactive even when the stored flag has
// not yet been flipped by a cleanup pass.
func (e *WorldEvent) Active(now time.Time) bool {
	if !e.IsActive {
		return false
	}
	if e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
		return false
	}
	return true
}
