package desim

import "fmt"

// Environment is the scheduler: a min-heap of pending items keyed by
// (fire_time, sequence_id), a monotonic virtual clock, and the table of
// live processes it owns. It plays the role of akita's sim.Engine /
// sim.SerialEngine (sim/engine.go, sim/serialengine.go), generalized from a
// Handler-addressed Event heap to the scheduledItem primitive that backs
// both raw events and process resumption tickets.
type Environment struct {
	*HookableBase

	now   VTime
	seq   uint64
	queue *eventQueue
	procs []*Process

	runErr error
}

// New creates an Environment with now = 0.
func New() *Environment {
	return &Environment{
		HookableBase: NewHookableBase(),
		queue:        newEventQueue(),
	}
}

// Now returns the current virtual time.
func (env *Environment) Now() VTime { return env.now }

func (env *Environment) nextSeq() uint64 {
	s := env.seq
	env.seq++
	return s
}

// schedule inserts a scheduledItem. An item scheduled at env.now during the
// current fire-step sorts after everything already queued for now, because
// its sequence_id is necessarily larger than every id already allocated.
func (env *Environment) schedule(it scheduledItem) {
	env.queue.push(it)
}

// scheduleFire schedules an arbitrary closure to run at time t, returning a
// cancel function that makes the pop a no-op if called before the ticket
// fires.
func (env *Environment) scheduleFire(t VTime, fn func(now VTime)) (cancel func()) {
	cancelled := new(bool)
	env.schedule(&fireTicket{
		itemBase: itemBase{t: t, s: env.nextSeq()},
		fn:       fn,
		cancelled: cancelled,
	})
	return func() { *cancelled = true }
}

// scheduleResume enqueues a ResumeProcess ticket for p at time t carrying
// value/err as the payload Process.Await will return.
func (env *Environment) scheduleResume(p *Process, t VTime, value any, err error) {
	env.schedule(&resumeTicket{
		itemBase: itemBase{t: t, s: env.nextSeq()},
		proc:     p,
		value:    value,
		err:      err,
	})
}

// ScheduleEvent constructs a new raw Event and enqueues it to succeed with
// value at virtual time t. This is the raw-event counterpart to
// Schedule(process, label) — spec.md §6's "env.schedule(event) | event |
// void | enqueue raw event" row — and is the primitive Delay is built from
// (Delay is ScheduleEvent with value fixed to nil and t computed as
// now+d). Panics if t is before the current time, the same way Delay
// panics on a negative duration.
func (env *Environment) ScheduleEvent(t VTime, value any) *Event {
	if t < env.now {
		panic("desim: cannot schedule an event in the past")
	}

	e := newEvent(env)
	cancelFire := env.scheduleFire(t, func(now VTime) { e.succeed(value) })
	e.onCancel = cancelFire
	return e
}

// CreateTask constructs a new Process around body and registers it with the
// environment, but does not schedule it — matching spec.md's "initially
// suspended (never auto-started)".
func (env *Environment) CreateTask(name string, body func(p *Process) error) *Process {
	p := newProcess(env, name, body)
	env.procs = append(env.procs, p)
	return p
}

// Schedule enqueues a ResumeProcess ticket for p at env.now, kicking off its
// body the first time it is called. label is used only for tracing.
func (env *Environment) Schedule(p *Process, label string) {
	p.label = label
	env.scheduleResume(p, env.now, nil, nil)
}

// Run drains the heap until empty, advancing env.now monotonically. It
// returns the first unhandled process fault, if any, exactly as spec.md §7
// describes: interrupt faults are recovered locally at the await site, but
// anything else a process body returns terminates Run with that error
// propagated to the embedder.
func (env *Environment) Run() error {
	for env.queue.len() > 0 {
		it := env.queue.pop()

		if it.time() < env.now {
			panic(fmt.Sprintf(
				"desim: cannot run item in the past, @ %d, now %d", it.time(), env.now))
		}
		env.now = it.time()

		env.InvokeHook(HookCtx{Domain: env, Pos: HookPosBeforeEvent, Item: it})
		it.run(env)
		env.InvokeHook(HookCtx{Domain: env, Pos: HookPosAfterEvent, Item: it})

		if env.runErr != nil {
			return env.runErr
		}
	}
	return nil
}

// handOff hands control to p's goroutine with sig as the resumption payload,
// and blocks until p suspends again or finishes. This, plus the two
// unbuffered channels on Process, is the single point of serialization that
// lets independently-goroutined processes behave as one cooperative,
// single-threaded executor: only one of {Environment.Run, some Process
// body} is ever actually running at a time.
func (env *Environment) handOff(p *Process, sig resumeSignal) {
	env.InvokeHook(HookCtx{Domain: env, Pos: HookPosProcessResume, Item: p})

	if !p.started {
		p.started = true
		go p.run()
	}

	p.currentWait = nil
	p.cancelWait = nil
	p.resumeCh <- sig
	<-p.yieldCh

	if p.done {
		// A process that runs to completion without a further Await never
		// suspends in the ordinary sense; fire the same hook position so
		// anything tracking resume/suspend pairs (trace.BusyTimeHook) sees
		// a closed interval rather than one left open forever.
		env.InvokeHook(HookCtx{Domain: env, Pos: HookPosProcessSuspend, Item: p})
		if _, isInterrupt := p.finalErr.(*InterruptError); p.finalErr != nil && !isInterrupt {
			env.runErr = p.finalErr
		}
	}
}
