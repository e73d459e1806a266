package sequencer

import (
	"sort"
	"sync"
	"time"

	"github.com/cbegin/soundtype-go/internal/notemap"
)

// Event is a note waiting to be dispatched at At.
type Event struct {
	At   time.Time
	Note notemap.Note
}

// Scheduler is a time-ordered queue of pending note events. A single loop
// drains it; Schedule and Cancel may be called from other goroutines.
type Scheduler struct {
	mu      sync.Mutex
	pending []Event
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule queues notes relative to origin using each note's Start offset.
func (s *Scheduler) Schedule(origin time.Time, notes []notemap.Note) {
	if len(notes) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		at := origin.Add(time.Duration(n.Start * float64(time.Second)))
		s.pending = append(s.pending, Event{At: at, Note: n})
	}
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].At.Before(s.pending[j].At)
	})
}

// Drain removes and returns every event due at or before now, in order.
func (s *Scheduler) Drain(now time.Time) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for n < len(s.pending) && !s.pending[n].At.After(now) {
		n++
	}
	if n == 0 {
		return nil
	}
	due := make([]Event, n)
	copy(due, s.pending[:n])
	s.pending = append(s.pending[:0], s.pending[n:]...)
	return due
}

// Cancel discards all pending events and returns how many were dropped.
func (s *Scheduler) Cancel() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.pending)
	s.pending = nil
	return n
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Next reports the fire time of the earliest pending event.
func (s *Scheduler) Next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return time.Time{}, false
	}
	return s.pending[0].At, true
}
