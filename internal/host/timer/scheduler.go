// Package timer implements a virtual-time scheduler driven by a frame clock.
//
// Cancellation takes effect from the next instant: events that fall due at
// the same instant are collected before any of them runs, so an event
// cancelled by an earlier callback of that batch still fires once.
package timer

import (
	"sort"
	"time"

	"github.com/wansatya/x.com/internal/host"
)

// Event is a scheduled callback
type Event struct {
	scheduler *Scheduler
	seq       uint64
	due       time.Duration
	period    time.Duration // zero for one-shot events
	fn        func()

	cancelled bool
	fired     int
}

// Cancel stops future firings of the event
func (e *Event) Cancel() {
	e.cancelled = true
}

// Cancelled reports whether Cancel was called
func (e *Event) Cancelled() bool {
	return e.cancelled
}

// Fired returns how many times the callback ran
func (e *Event) Fired() int {
	return e.fired
}

// Due returns the next firing time relative to the scheduler's start
func (e *Event) Due() time.Duration {
	return e.due
}

// Scheduler owns the pending events of one frame loop. It is not safe for
// concurrent use.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	events []*Event
}

var _ host.Timers = (*Scheduler)(nil)

// New creates an empty scheduler at time zero
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the elapsed virtual time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn once, d from now
func (s *Scheduler) After(d time.Duration, fn func()) host.Timer {
	return s.schedule(d, 0, fn)
}

// Every schedules fn every d, first firing d from now.
// Periods below one millisecond are raised to one millisecond.
func (s *Scheduler) Every(d time.Duration, fn func()) host.Timer {
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return s.schedule(d, d, fn)
}

func (s *Scheduler) schedule(d, period time.Duration, fn func()) *Event {
	if d < 0 {
		d = 0
	}
	s.seq++
	e := &Event{
		scheduler: s,
		seq:       s.seq,
		due:       s.now + d,
		period:    period,
		fn:        fn,
	}
	s.events = append(s.events, e)
	return e
}

// Pending returns the number of events that have not been cancelled or
// completed
func (s *Scheduler) Pending() int {
	n := 0
	for _, e := range s.events {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// CancelAll cancels every pending event
func (s *Scheduler) CancelAll() {
	for _, e := range s.events {
		e.cancelled = true
	}
	s.events = nil
}

// Advance moves virtual time forward by dt, running every event that falls
// due on the way in time order. Events due at the same instant run in
// scheduling order.
func (s *Scheduler) Advance(dt time.Duration) {
	target := s.now + dt
	for {
		batch := s.nextBatch(target)
		if len(batch) == 0 {
			break
		}
		s.now = batch[0].due
		for _, e := range batch {
			e.fired++
			e.fn()
			if e.period > 0 && !e.cancelled {
				e.due += e.period
			} else {
				e.cancelled = true
			}
		}
		s.compact()
	}
	s.now = target
}

// nextBatch returns the live events sharing the earliest due time <= target
func (s *Scheduler) nextBatch(target time.Duration) []*Event {
	var batch []*Event
	for _, e := range s.events {
		if e.cancelled || e.due > target {
			continue
		}
		switch {
		case len(batch) == 0 || e.due < batch[0].due:
			batch = append(batch[:0], e)
		case e.due == batch[0].due:
			batch = append(batch, e)
		}
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].seq < batch[j].seq })
	return batch
}

func (s *Scheduler) compact() {
	live := s.events[:0]
	for _, e := range s.events {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(s.events); i++ {
		s.events[i] = nil
	}
	s.events = live
}
