package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thornquist/loreweaver/internal/engine"
	"github.com/thornquist/loreweaver/internal/llm"
	"github.com/thornquist/loreweaver/internal/storage/sqlite"
	"github.com/thornquist/loreweaver/pkg/types"
)

type staticGenerator struct{}

func (staticGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return `{"message": "...", "mood": "neutral"}`, nil
}
func (staticGenerator) GetModel() string { return "static" }

func newNotifyEngine(t *testing.T) (*engine.Engine, *sqlite.WorldStore) {
	t.Helper()
	store, err := sqlite.NewWorldStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	eng, err := engine.New(store, llm.NewNarrator(staticGenerator{}), engine.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return eng, store
}

func TestInboxWatcherDrainsExistingFiles(t *testing.T) {
	eng, _ := newNotifyEngine(t)
	dir := t.TempDir()

	event := InboxEvent{
		EventName:     "The Flood",
		Description:   "The river breaks its banks",
		Severity:      "high",
		DurationHours: 2,
	}
	data, _ := json.Marshal(event)
	if err := os.WriteFile(filepath.Join(dir, "flood.json"), data, 0o600); err != nil {
		t.Fatalf("failed to write event file: %v", err)
	}

	watcher := NewInboxWatcher(dir, eng)
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	events, err := eng.ActiveEvents(context.Background())
	if err != nil {
		t.Fatalf("ActiveEvents failed: %v", err)
	}
	if len(events) != 1 || events[0].Name != "The Flood" {
		t.Fatalf("events = %+v, want The Flood", events)
	}
	if events[0].Severity != types.SeverityHigh {
		t.Errorf("severity = %q, want high", events[0].Severity)
	}
	if events[0].ExpiresAt == nil {
		t.Error("expected expiry from durationHours")
	}

	// The drop file was consumed.
	if _, err := os.Stat(filepath.Join(dir, "flood.json")); !os.IsNotExist(err) {
		t.Error("event file should be removed after processing")
	}
}

func TestInboxWatcherPicksUpNewFiles(t *testing.T) {
	eng, _ := newNotifyEngine(t)
	dir := t.TempDir()

	watcher := NewInboxWatcher(dir, eng)
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	data, _ := json.Marshal(InboxEvent{EventName: "Market Fire", Description: "Smoke rises", Severity: "medium"})
	if err := os.WriteFile(filepath.Join(dir, "fire.json"), data, 0o600); err != nil {
		t.Fatalf("failed to write event file: %v", err)
	}

	// The watcher processes asynchronously; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		events, err := eng.ActiveEvents(context.Background())
		if err != nil {
			t.Fatalf("ActiveEvents failed: %v", err)
		}
		if len(events) == 1 {
			if events[0].Name != "Market Fire" {
				t.Fatalf("event = %+v", events[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never processed the dropped file")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestInboxWatcherIgnoresInvalidFiles(t *testing.T) {
	eng, _ := newNotifyEngine(t)
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "noname.json"), []byte(`{"severity": "low"}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	watcher := NewInboxWatcher(dir, eng)
	if err := watcher.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer watcher.Stop()

	events, err := eng.ActiveEvents(context.Background())
	if err != nil {
		t.Fatalf("ActiveEvents failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %+v, want none from invalid files", events)
	}
}

func TestOutboxWriterWritesHappenings(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewOutboxWriter(dir)
	if err != nil {
		t.Fatalf("NewOutboxWriter failed: %v", err)
	}

	writer.Broadcast(engine.Happening{
		Type:      "world_event",
		Payload:   map[string]interface{}{"name": "The Flood"},
		Timestamp: time.Now(),
	})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("outbox entries = %d, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var h engine.Happening
	if err := json.Unmarshal(data, &h); err != nil {
		t.Fatalf("outbox file is not valid JSON: %v", err)
	}
	if h.Type != "world_event" {
		t.Errorf("type = %q, want world_event", h.Type)
	}
}
