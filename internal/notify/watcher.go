// Package notify bridges the world simulation to the filesystem: an inbox
// watcher turns dropped JSON files into world events, and an outbox writer
// mirrors notable happenings out for external tooling.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thornquist/loreweaver/internal/engine"
)

// InboxEvent is the JSON shape of a dropped world event file.
type InboxEvent struct {
	EventName            string   `json:"eventName"`
	Description          string   `json:"description"`
	Severity             string   `json:"severity"`
	AffectedLocations    []string `json:"affectedLocations"`
	AffectedCharacterIDs []string `json:"affectedCharacterIds"`
	DurationHours        int      `json:"durationHours"`
}

// InboxWatcher watches a directory for world event JSON drops and injects
// them into the engine. Files are consumed (deleted) once processed.
type InboxWatcher struct {
	dir     string
	engine  *engine.Engine
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewInboxWatcher creates a watcher for the given directory.
func NewInboxWatcher(dir string, eng *engine.Engine) *InboxWatcher {
	return &InboxWatcher{
		dir:    dir,
		engine: eng,
		done:   make(chan struct{}),
	}
}

// Start begins watching. It drains any existing event files first, then
// watches for new ones. Call Stop() to clean up.
func (iw *InboxWatcher) Start() error {
	if err := os.MkdirAll(iw.dir, 0o700); err != nil {
		return err
	}

	iw.drainExisting()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(iw.dir); err != nil {
		_ = w.Close()
		return err
	}
	iw.watcher = w

	go iw.loop()
	log.Printf("notify: watching %s for world event drops", iw.dir)
	return nil
}

// Stop shuts down the watcher.
func (iw *InboxWatcher) Stop() {
	if iw.watcher != nil {
		_ = iw.watcher.Close()
	}
	<-iw.done
}

func (iw *InboxWatcher) loop() {
	defer close(iw.done)
	for {
		select {
		case evt, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if evt.Op&fsnotify.Create != 0 && strings.HasSuffix(evt.Name, ".json") {
				iw.processFile(evt.Name)
			}
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("notify: watcher error: %v", err)
		}
	}
}

func (iw *InboxWatcher) drainExisting() {
	entries, err := os.ReadDir(iw.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			iw.processFile(filepath.Join(iw.dir, entry.Name()))
		}
	}
}

func (iw *InboxWatcher) processFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // file already consumed by another process
	}
	_ = os.Remove(path)

	var event InboxEvent
	if err := json.Unmarshal(data, &event); err != nil {
		log.Printf("notify: invalid event file %s: %v", filepath.Base(path), err)
		return
	}
	if event.EventName == "" {
		log.Printf("notify: event file %s has no eventName, skipping", filepath.Base(path))
		return
	}

	input := engine.CreateEventInput{
		Name:                 event.EventName,
		Description:          event.Description,
		Severity:             event.Severity,
		AffectedLocations:    event.AffectedLocations,
		AffectedCharacterIDs: event.AffectedCharacterIDs,
	}
	if event.DurationHours > 0 {
		input.Duration = time.Duration(event.DurationHours) * time.Hour
	}

	if _, err := iw.engine.CreateEvent(context.Background(), input); err != nil {
		log.Printf("notify: failed to create event %q: %v", event.EventName, err)
	}
}
