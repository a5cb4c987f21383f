package session

import (
	"slices"
	"sync"
)

// EventKind names a session transition.
type EventKind string

const (
	EventStepPassed      EventKind = "step-passed"
	EventStepFailed      EventKind = "step-failed"
	EventStageAdvanced   EventKind = "stage-advanced"
	EventGradingStarted  EventKind = "grading-started"
	EventGradingFinished EventKind = "grading-finished"
	EventReset           EventKind = "reset"
)

// Event is emitted to subscribers after every transition.
type Event struct {
	Kind    EventKind `json:"kind"`
	Step    int       `json:"step,omitempty"`
	Outcome Outcome   `json:"outcome,omitempty"`
	Message string    `json:"message,omitempty"`
}

// bus fans events out to subscribers. Handlers run synchronously on the
// emitting goroutine, never while the session lock is held.
type bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func (b *bus) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *bus) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	handlers := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		handlers = append(handlers, b.subs[id])
	}
	b.mu.Unlock()

	for _, e := range events {
		for _, h := range handlers {
			h(e)
		}
	}
}
