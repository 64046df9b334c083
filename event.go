// Package desim implements a discrete-event simulation engine with
// cooperative coroutine-based processes, modeled after the csimpy engine
// under _examples/original_source.
package desim

// VTime is the virtual clock of a simulation, measured in integer ticks.
// It never relates to wall-clock time.
type VTime int64

// scheduledItem is the engine-internal heap entry. Unlike the public Event
// type (the completion/awaitable primitive processes block on), a
// scheduledItem only exists to drive Environment.Run's pop loop.
type scheduledItem interface {
	time() VTime
	seq() uint64
	run(env *Environment)
}

// itemBase provides the (time, seq) ordering fields shared by every
// scheduledItem implementation.
type itemBase struct {
	t VTime
	s uint64
}

func (b itemBase) time() VTime { return b.t }
func (b itemBase) seq() uint64 { return b.s }

// fireTicket runs an arbitrary closure when popped. Delay (through
// Environment.ScheduleEvent) schedules one of these; Event.Succeed does not,
// it runs the event's callbacks directly within the call. Cancelled tickets
// are skipped at pop time
// rather than removed from the heap, since removing an arbitrary element
// from a binary heap is not worth the bookkeeping for a fire-once primitive.
type fireTicket struct {
	itemBase
	fn        func(now VTime)
	cancelled *bool
}

func (f *fireTicket) run(_ *Environment) {
	if f.cancelled != nil && *f.cancelled {
		return
	}
	f.fn(f.t)
}

// resumeTicket targets a specific Process for resumption, carrying the
// payload (or interrupt fault) that woke it.
type resumeTicket struct {
	itemBase
	proc  *Process
	value any
	err   error
}

func (r *resumeTicket) run(env *Environment) {
	env.handOff(r.proc, resumeSignal{value: r.value, err: r.err})
}

// Event is the engine's single awaitable primitive: a latch that is either
// pending or settled (with a value and/or an error), plus the list of
// callbacks to run exactly once, in registration order, the moment it
// settles. Delay, AllOf, AnyOf, Container.Put/Get and Store.Put/Get all
// construct and return an *Event, differing only in what eventually calls
// succeed/fail on it. This collapses what csimpy spreads across several
// event subclasses (csimpy_env.h) into one shape, the way akita collapses
// its handler-addressed messages behind a single sim.Event interface.
type Event struct {
	env *Environment

	done  bool
	value any
	err   error

	callbacks []*eventCallback

	// retain anchors combinator bookkeeping (allOfState/anyOfState) that the
	// combinator's own children only reference weakly, so the bookkeeping
	// stays alive for exactly as long as this Event does and no longer.
	retain any

	// onCancel, when set, is invoked once if this event is ever interrupted
	// out from under its awaiter. Container/Store set it to remove the
	// waiter from their internal queues; Delay sets it to suppress the
	// pending fireTicket. Plain completion events leave it nil.
	onCancel func()
}

// cancel runs onCancel, if any. It does not itself resume anyone —
// Process.Interrupt delivers the resumption separately.
func (e *Event) cancel() {
	if e.done {
		return
	}
	if e.onCancel != nil {
		e.onCancel()
	}
}

type eventCallback struct {
	fn        func(value any, err error)
	cancelled bool
}

func newEvent(env *Environment) *Event {
	return &Event{env: env}
}

func (e *Event) isDone() bool { return e.done }

// addCallback registers fn to run the moment e settles. If e has already
// settled, fn runs synchronously, immediately, on the calling goroutine —
// this is the looser semantics combinators rely on (as opposed to
// Process.Await's stricter no-suspend short circuit). It returns a cancel
// function that suppresses the callback if it has not fired yet.
func (e *Event) addCallback(fn func(value any, err error)) (cancel func()) {
	if e.done {
		fn(e.value, e.err)
		return func() {}
	}

	cb := &eventCallback{fn: fn}
	e.callbacks = append(e.callbacks, cb)
	return func() { cb.cancelled = true }
}

// Succeed settles e with value, waking every registered callback in
// registration order. Succeeding an already-done Event is an idempotent
// no-op, per spec.md §9(b).
func (e *Event) Succeed(value any) {
	e.settle(value, nil)
}

// succeed is the unexported spelling used internally so process completion
// and resource internals don't have to route through the exported name.
func (e *Event) succeed(value any) { e.settle(value, nil) }

// fail settles e with an error rather than a value.
func (e *Event) fail(err error) { e.settle(nil, err) }

func (e *Event) settle(value any, err error) {
	if e.done {
		return
	}
	e.done = true
	e.value = value
	e.err = err

	cbs := e.callbacks
	e.callbacks = nil
	for _, cb := range cbs {
		if cb.cancelled {
			continue
		}
		cb.fn(value, err)
	}
}

// Value and Err expose the settled payload. They are meaningful only after
// the Event has settled; combinators and Process.Await are the only
// intended way to observe that.
func (e *Event) Value() any { return e.value }
func (e *Event) Err() error { return e.err }

