package session

import (
	"sync"
	"time"

	"github.com/lucifer1004/dropcode/internal/logger"
)

// writeFunc issues the persistence call for one debounced channel.
type writeFunc func(id, value string) error

// writer coalesces rapid edits into one persistence call per quiet window.
// Each Schedule supersedes the previous pending write entirely; the target
// id is captured at schedule time, so a write always lands on the snippet
// that was being edited, not whichever is open when the timer fires.
type writer struct {
	channel string
	window  time.Duration
	write   writeFunc
	log     logger.Logger
	onError func(error)

	mu           sync.Mutex
	seq          uint64
	timer        *time.Timer
	pendingID    string
	pendingValue string
	hasPending   bool
	confirmed    map[string]string
}

func newWriter(channel string, window time.Duration, write writeFunc, log logger.Logger, onError func(error)) *writer {
	return &writer{
		channel:   channel,
		window:    window,
		write:     write,
		log:       log,
		onError:   onError,
		confirmed: make(map[string]string),
	}
}

// Schedule records the latest value for the given snippet and restarts the
// quiet window. Only the most recent schedule survives.
func (w *writer) Schedule(id, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.seq++
	seq := w.seq
	w.pendingID = id
	w.pendingValue = value
	w.hasPending = true
	w.timer = time.AfterFunc(w.window, func() { w.fire(seq) })
}

// Flush writes any pending value immediately. Used on shutdown so the last
// keystrokes are not lost to an unexpired window.
func (w *writer) Flush() {
	w.mu.Lock()
	w.seq++
	if w.timer != nil {
		w.timer.Stop()
	}
	id, value, ok := w.takeLocked()
	w.mu.Unlock()

	if ok {
		w.perform(id, value)
	}
}

// setConfirmed records the persisted value for a snippet so an identical
// later edit is recognized as a no-op.
func (w *writer) setConfirmed(id, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.confirmed[id] = value
}

func (w *writer) fire(seq uint64) {
	w.mu.Lock()
	if seq != w.seq {
		// A newer schedule restarted the window after this timer was armed.
		w.mu.Unlock()
		return
	}
	id, value, ok := w.takeLocked()
	w.mu.Unlock()

	if ok {
		w.perform(id, value)
	}
}

func (w *writer) takeLocked() (id, value string, ok bool) {
	if !w.hasPending {
		return "", "", false
	}
	id, value = w.pendingID, w.pendingValue
	w.hasPending = false

	if last, known := w.confirmed[id]; known && last == value {
		w.log.Debug("skipping unchanged write",
			logger.String("channel", w.channel),
			logger.String("snippet", id))
		return "", "", false
	}
	return id, value, true
}

func (w *writer) perform(id, value string) {
	err := w.write(id, value)

	w.mu.Lock()
	if err == nil {
		w.confirmed[id] = value
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error("debounced write failed",
			logger.String("channel", w.channel),
			logger.String("snippet", id),
			logger.Error(err))
		if w.onError != nil {
			w.onError(err)
		}
	}
}
