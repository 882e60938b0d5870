// Package engine is the core orchestrator for the narrative world: it drives
// conversation turns, the quest lifecycle, and world event propagation over
// the storage layer, with all generation delegated to the narrator.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/thornquist/loreweaver/internal/llm"
	"github.com/thornquist/loreweaver/internal/storage"
)

// ErrInvalidTransition is returned when a quest operation is attempted from a
// status that does not allow it.
var ErrInvalidTransition = errors.New("invalid quest transition")

// ErrNotOwner is returned when a caller references a resource that belongs to
// a different user.
var ErrNotOwner = errors.New("resource belongs to another user")

// Happening is a notable world occurrence pushed to live feeds and the
// event outbox.
type Happening struct {
	Type      string      `json:"type"` // message, quest_offered, world_event, mood_change
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Broadcaster receives happenings as they occur. Implementations must not
// block; the engine calls Broadcast inline on the request path.
type Broadcaster interface {
	Broadcast(h Happening)
}

// Config holds engine tuning knobs.
type Config struct {
	// DefaultEventDuration is how long generated world events stay active.
	DefaultEventDuration time.Duration

	// SummaryInterval is the message count multiple at which the engine
	// refreshes a conversation's summary and user facts.
	SummaryInterval int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		DefaultEventDuration: 24 * time.Hour,
		SummaryInterval:      50,
	}
}

// Engine orchestrates conversations, quests, and world state.
type Engine struct {
	config   Config
	store    storage.WorldStore
	narrator *llm.Narrator

	// broadcasters receive happenings; registration happens at wiring time,
	// before requests flow.
	broadcasters []Broadcaster

	// convLocks serialises turns per conversation so concurrent sends
	// cannot interleave message counts and metadata updates.
	convLocks sync.Map // conversationID -> *sync.Mutex
}

// New creates an engine over the given store and narrator.
func New(store storage.WorldStore, narrator *llm.Narrator, config Config) (*Engine, error) {
	if store == nil {
		return nil, errors.New("world store is required")
	}
	if narrator == nil {
		return nil, errors.New("narrator is required")
	}
	if config.DefaultEventDuration <= 0 {
		config.DefaultEventDuration = 24 * time.Hour
	}
	if config.SummaryInterval <= 0 {
		config.SummaryInterval = 50
	}

	return &Engine{
		config:   config,
		store:    store,
		narrator: narrator,
	}, nil
}

// AddBroadcaster registers a happening receiver. Not safe to call once
// requests are flowing.
func (e *Engine) AddBroadcaster(b Broadcaster) {
	if b != nil {
		e.broadcasters = append(e.broadcasters, b)
	}
}

func (e *Engine) publish(happeningType string, payload interface{}) {
	h := Happening{
		Type:      happeningType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for _, b := range e.broadcasters {
		b.Broadcast(h)
	}
}

// lockConversation acquires the per-conversation mutex, creating it on first
// use. Entries are never removed; the set of active conversations is small.
func (e *Engine) lockConversation(conversationID string) func() {
	value, _ := e.convLocks.LoadOrStore(conversationID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
