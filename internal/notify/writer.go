package notify

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/thornquist/loreweaver/internal/engine"
)

// OutboxWriter mirrors engine happenings to a directory as JSON files, one
// file per happening. External tooling (dashboards, Discord bridges) tails
// the directory instead of holding a connection to the server.
type OutboxWriter struct {
	dir string
	seq atomic.Uint64
}

// NewOutboxWriter creates a writer for the given directory.
func NewOutboxWriter(dir string) (*OutboxWriter, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create outbox directory: %w", err)
	}
	return &OutboxWriter{dir: dir}, nil
}

// Broadcast writes the happening as a JSON file. Write failures are logged
// and dropped; the outbox is an observation channel, not a durability one.
func (w *OutboxWriter) Broadcast(h engine.Happening) {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		log.Printf("notify: failed to marshal happening: %v", err)
		return
	}

	// Timestamp plus sequence keeps names unique and sortable.
	name := fmt.Sprintf("%d-%06d-%s.json", time.Now().UnixNano(), w.seq.Add(1), h.Type)
	path := filepath.Join(w.dir, name)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Printf("notify: failed to write happening: %v", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Printf("notify: failed to publish happening: %v", err)
		_ = os.Remove(tmp)
	}
}

// Compile-time assertion.
var _ engine.Broadcaster = (*OutboxWriter)(nil)
