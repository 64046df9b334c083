package desim

import "fmt"

// resumeSignal is the payload carried across a Process's resumeCh: the
// value/err pair that whatever Event the process was awaiting settled with.
type resumeSignal struct {
	value any
	err   error
}

// Process is a single cooperative task: a Go goroutine whose execution is
// serialized against the Environment's pop loop by two unbuffered channels.
// Exactly one of {Environment.Run, the currently-resumed Process's body} is
// ever doing work at a time — resumeCh/yieldCh is the handshake that makes
// that true without a mutex.
type Process struct {
	env   *Environment
	name  string
	label string
	id    string

	body func(p *Process) error

	resumeCh chan resumeSignal
	yieldCh  chan struct{}

	started bool
	done    bool
	finalErr error

	completion *Event

	// currentWait/cancelWait describe whatever Event this process is
	// presently suspended on, so Interrupt can tear it down.
	currentWait *Event
	cancelWait  func()
}

func newProcess(env *Environment, name string, body func(p *Process) error) *Process {
	return &Process{
		env:        env,
		name:       name,
		id:         GetIDGenerator().Generate(),
		body:       body,
		resumeCh:   make(chan resumeSignal),
		yieldCh:    make(chan struct{}),
		completion: newEvent(env),
	}
}

// Name returns the process's diagnostic name.
func (p *Process) Name() string { return p.name }

// ID returns the process's trace ID, allocated from the package-wide
// pluggable IDGenerator.
func (p *Process) ID() string { return p.id }

// Env returns the owning Environment.
func (p *Process) Env() *Environment { return p.env }

// CompletionEvent returns the Event that succeeds (or fails) with the
// process body's return value once it returns, letting other processes
// Await a process's termination the same way they'd await anything else.
func (p *Process) CompletionEvent() *Event { return p.completion }

// run is the goroutine body. It blocks for its first resumeSignal (sent by
// Environment.handOff when the process is first Scheduled), runs body to
// completion, and settles p.completion.
func (p *Process) run() {
	<-p.resumeCh

	err := p.runBody()

	p.done = true
	p.finalErr = err
	if err != nil {
		if _, isInterrupt := err.(*InterruptError); !isInterrupt {
			p.completion.fail(err)
		} else {
			p.completion.succeed(nil)
		}
	} else {
		p.completion.succeed(nil)
	}

	p.yieldCh <- struct{}{}
}

// runBody recovers a *InterruptError that the body re-raises with panic,
// turning it into a normal error return rather than a panic across the
// goroutine boundary.
func (p *Process) runBody() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ierr, ok := r.(*InterruptError); ok {
				err = ierr
				return
			}
			panic(r)
		}
	}()
	return p.body(p)
}

// Await suspends p until e settles, and returns e's value/err. If e has
// already settled, Await returns immediately without a scheduler round
// trip — the literal "returns the stored value without suspending" behavior
// spec.md calls for, distinct from the looser synchronous-callback
// semantics Event.addCallback gives combinators. If p is interrupted while
// suspended, Await returns the *InterruptError as its error.
func (p *Process) Await(e *Event) (any, error) {
	if e.isDone() {
		return e.value, e.err
	}

	done := false
	var result resumeSignal

	cancel := e.addCallback(func(value any, err error) {
		if done {
			return
		}
		p.env.scheduleResume(p, p.env.Now(), value, err)
	})

	p.currentWait = e
	p.cancelWait = cancel
	p.env.InvokeHook(HookCtx{Domain: p.env, Pos: HookPosProcessSuspend, Item: p})

	p.yieldCh <- struct{}{}
	result = <-p.resumeCh
	done = true

	return result.value, result.err
}

// Interrupt raises a recoverable fault on p at its current await point. If p
// is not currently suspended (hasn't started, or has already finished),
// Interrupt is a no-op, matching spec.md §9(a): interrupting a process with
// no pending await has nothing to interrupt. p.currentWait.isDone() is also
// checked: the event p is waiting on may have already settled and queued a
// resumeTicket earlier in the same tick, before handOff has run for it and
// cleared currentWait/cancelWait. Without this check, Interrupt would
// enqueue a second resumeTicket for the same process alongside that
// still-pending one — either hanging Run (p finishes on the first ticket,
// leaving nothing to receive the second's send) or delivering a stale
// interrupt into whatever p awaits next.
func (p *Process) Interrupt(cause any) {
	if !p.started || p.done || p.currentWait == nil || p.currentWait.isDone() {
		return
	}

	p.currentWait.cancel()
	if p.cancelWait != nil {
		p.cancelWait()
	}

	ierr := &InterruptError{Cause: cause, Process: p}
	p.env.scheduleResume(p, p.env.Now(), nil, ierr)
}

func (p *Process) String() string {
	return fmt.Sprintf("Process(%s)", p.name)
}
