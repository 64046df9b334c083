package desim

import "weak"

// AllOfResult is what an AllOf event succeeds with: a mapping from each
// child's identity to the value it fired with, per spec.md §4.6 ("a mapping
// from child identifier to child payload").
type AllOfResult map[*Event]any

// AnyOfResult is what an AnyOf event settles with: which child won and the
// value/err it settled with, per spec.md §4.6 ("a payload identifying which
// child fired").
type AnyOfResult struct {
	Winner *Event
	Value  any
}

// allOfState is the private bookkeeping AllOf's children close over. Each
// child registers a callback holding a weak.Pointer back to this struct and
// a strong reference to the combinator's own *Event. Because that Event
// anchors this struct through Event.retain, the weak pointer stays valid
// for as long as any child still holds the callback.
type allOfState struct {
	remaining int
	result    AllOfResult
	errs      []error
}

// AllOf returns an Event that succeeds once every child has settled, at the
// virtual time of the last child to fire. If any child fails, AllOf fails
// with the first error encountered in settlement order, but still waits for
// every other child to settle first — mirroring csimpy's AllOf combinator
// event, which likewise never short-circuits the wait.
//
// A zero-children AllOf succeeds immediately: there is nothing left to wait
// for.
func AllOf(env *Environment, children ...*Event) *Event {
	out := newEvent(env)

	if len(children) == 0 {
		out.succeed(AllOfResult{})
		return out
	}

	state := &allOfState{remaining: len(children), result: make(AllOfResult, len(children))}
	out.retain = state
	weakState := weak.Make(state)

	for _, child := range children {
		child := child
		child.addCallback(func(value any, err error) {
			s := weakState.Value()
			if s == nil || out.isDone() {
				return
			}

			s.result[child] = value
			if err != nil {
				s.errs = append(s.errs, err)
			}

			s.remaining--
			if s.remaining == 0 {
				if len(s.errs) > 0 {
					out.fail(s.errs[0])
				} else {
					out.succeed(s.result)
				}
			}
		})
	}

	return out
}

// anyOfState is AnyOf's equivalent private bookkeeping.
type anyOfState struct {
	settled bool
}

// AnyOf returns an Event that settles the moment any one child settles, at
// that child's fire time. The remaining children's callbacks are marked
// cancelled at that point (their eventual settlement is ignored, not
// prevented — they may be shared with other awaiters).
func AnyOf(env *Environment, children ...*Event) *Event {
	out := newEvent(env)

	if len(children) == 0 {
		return out
	}

	state := &anyOfState{}
	out.retain = state
	weakState := weak.Make(state)

	var cancels []func()
	for _, child := range children {
		if state.settled {
			break
		}
		child := child
		cancel := child.addCallback(func(value any, err error) {
			s := weakState.Value()
			if s == nil || s.settled {
				return
			}
			s.settled = true
			for _, c := range cancels {
				c()
			}
			out.settle(AnyOfResult{Winner: child, Value: value}, err)
		})
		cancels = append(cancels, cancel)
	}

	return out
}
