package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sandeepkv93/calld/internal/model"
)

const (
	DefaultWarnWindow   = 5 * time.Minute
	DefaultTickInterval = time.Second
)

type EventKind string

const (
	// KindOverdue fires once when a reminder's due instant has passed
	// without the reminder having been notified.
	KindOverdue EventKind = "overdue"
	// KindUpcoming fires once when the next reminder enters the pre-call
	// warning window.
	KindUpcoming EventKind = "upcoming"
	// KindTick carries the remaining duration to the next reminder, for
	// countdown display only. No state changes.
	KindTick EventKind = "tick"
	// KindIdle reports that no upcoming reminder exists.
	KindIdle EventKind = "idle"
)

type Event struct {
	Kind      EventKind
	Reminder  model.Reminder
	Remaining time.Duration
	// Err carries a persistence failure from flipping the notified flag.
	// The event still fires; the flag is set in memory either way.
	Err error
}

// Source is the slice of the repository the engine needs: a consistent sorted
// snapshot and the notified-flag mutation. The engine never mutates reminder
// state directly.
type Source interface {
	List() []model.Reminder
	MarkNotified(id string) error
}

// Engine drives the reminder lifecycle. A recurring tick selects the next due
// reminder, evaluates the overdue and pre-call thresholds against it, flips
// the notified flag through the source, and emits events on a buffered
// channel. Sends never block; events the consumer cannot keep up with are
// dropped and counted.
type Engine struct {
	mu       sync.Mutex
	source   Source
	loc      *time.Location
	warn     time.Duration
	interval time.Duration
	now      func() time.Time
	out      chan Event
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	stopped  bool
	ticking  atomic.Bool
	dropped  uint64
}

type Option func(*Engine)

// WithClock injects the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithWarnWindow sets the pre-call warning threshold.
func WithWarnWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.warn = d
		}
	}
}

// WithTickInterval sets the tick cadence.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

func NewEngine(source Source, loc *time.Location, bufferSize int, opts ...Option) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{
		source:   source,
		loc:      loc,
		warn:     DefaultWarnWindow,
		interval: DefaultTickInterval,
		now:      time.Now,
		out:      make(chan Event, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

// Stop cancels the tick loop and waits for it to drain. Safe to call once
// the program tears down; no further events are emitted afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Single-flight: a fire that arrives while a tick is still
			// running is dropped, never run reentrantly.
			if !e.ticking.CompareAndSwap(false, true) {
				continue
			}
			ev := e.Tick(e.now())
			e.ticking.Store(false)
			e.emit(ev)
		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.out <- ev:
	default:
		atomic.AddUint64(&e.dropped, 1)
	}
}

// Tick runs one synchronous evaluation against now and returns the resulting
// event. Threshold priority, checked against a single selected reminder per
// tick:
//
//  1. Overdue: the earliest reminder whose due instant has passed and whose
//     notified flag is still false. Checked against the full sorted list so a
//     reminder missed while the process was down is still reported.
//  2. Upcoming: the next future reminder, if it is inside the warning window
//     and not yet notified.
//  3. Tick: countdown to the next future reminder.
//  4. Idle: no future reminder exists.
//
// The notified flag only moves false to true, so a backward clock jump never
// re-opens an already-notified reminder.
func (e *Engine) Tick(now time.Time) Event {
	items := e.source.List()

	for _, item := range items {
		due := item.DueAt(e.loc)
		if due.After(now) {
			break
		}
		if !item.Notified {
			err := e.source.MarkNotified(item.ID)
			return Event{Kind: KindOverdue, Reminder: item, Err: err}
		}
	}

	for _, item := range items {
		due := item.DueAt(e.loc)
		if !due.After(now) {
			continue
		}
		remaining := due.Sub(now)
		if remaining <= e.warn && !item.Notified {
			err := e.source.MarkNotified(item.ID)
			return Event{Kind: KindUpcoming, Reminder: item, Remaining: remaining, Err: err}
		}
		return Event{Kind: KindTick, Reminder: item, Remaining: remaining}
	}

	return Event{Kind: KindIdle}
}

// Next reports the next future reminder and the time remaining to it.
func (e *Engine) Next(now time.Time) (model.Reminder, time.Duration, bool) {
	for _, item := range e.source.List() {
		due := item.DueAt(e.loc)
		if due.After(now) {
			return item, due.Sub(now), true
		}
	}
	return model.Reminder{}, 0, false
}
