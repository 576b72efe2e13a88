// Package watcher reports changes to files on disk by polling their size
// and modification time.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"
)

type Watcher interface {
	Start(ctx context.Context, paths ...string) error
	Watch(ctx context.Context, paths ...string) error
	OnChange(callback func(path string, event EventType))
}

type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
)

func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

const DefaultInterval = 2 * time.Second

type fileState struct {
	exists  bool
	size    int64
	modTime time.Time
}

// PollWatcher stats each watched path on a fixed interval. It is enough for a
// database that changes a few times a minute and avoids platform specific
// notification APIs.
type PollWatcher struct {
	logger   *slog.Logger
	interval time.Duration

	mu       sync.Mutex
	callback func(path string, event EventType)
}

func NewPollWatcher(logger *slog.Logger, interval time.Duration) *PollWatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &PollWatcher{logger: logger, interval: interval}
}

func (w *PollWatcher) OnChange(callback func(path string, event EventType)) {
	w.mu.Lock()
	w.callback = callback
	w.mu.Unlock()
}

// Start records the current state of paths and then polls them in the
// background until ctx is done. Changes made after Start returns are
// reported.
func (w *PollWatcher) Start(ctx context.Context, paths ...string) error {
	states, err := w.snapshot(paths)
	if err != nil {
		return err
	}
	go w.loop(ctx, paths, states)
	return nil
}

// Watch is Start without the goroutine: it blocks until ctx is done.
func (w *PollWatcher) Watch(ctx context.Context, paths ...string) error {
	states, err := w.snapshot(paths)
	if err != nil {
		return err
	}
	w.loop(ctx, paths, states)
	return nil
}

// snapshot stats every path. Missing paths are watched for creation.
func (w *PollWatcher) snapshot(paths []string) (map[string]fileState, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	states := make(map[string]fileState, len(paths))
	for _, p := range paths {
		st, err := stat(p)
		if err != nil {
			return nil, err
		}
		states[p] = st
	}
	return states, nil
}

func (w *PollWatcher) loop(ctx context.Context, paths []string, states map[string]fileState) {
	if w.logger != nil {
		w.logger.Info("watching files", "count", len(paths), "interval", w.interval)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range paths {
				w.poll(p, states)
			}
		}
	}
}

func (w *PollWatcher) poll(path string, states map[string]fileState) {
	cur, err := stat(path)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("failed to stat watched file", "error", err)
		}
		return
	}

	prev := states[path]
	states[path] = cur

	event, changed := diff(prev, cur)
	if !changed {
		return
	}

	w.mu.Lock()
	cb := w.callback
	w.mu.Unlock()

	if w.logger != nil {
		w.logger.Debug("watched file changed", "event", event.String())
	}
	if cb != nil {
		cb(path, event)
	}
}

func diff(prev, cur fileState) (EventType, bool) {
	switch {
	case !prev.exists && cur.exists:
		return EventCreate, true
	case prev.exists && !cur.exists:
		return EventDelete, true
	case cur.exists && (prev.size != cur.size || !prev.modTime.Equal(cur.modTime)):
		return EventModify, true
	}
	return 0, false
}

func stat(path string) (fileState, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, err
	}
	return fileState{exists: true, size: info.Size(), modTime: info.ModTime()}, nil
}
