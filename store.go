package desim

// Priority orders Store waiters within the put/get queues. High-priority
// waiters are always served before Low-priority waiters eligible at the
// same instant.
type Priority int

const (
	Low Priority = iota
	High
)

// Item is the optional capability a value put into a Store may implement:
// Clone controls put-by-value semantics, Describe gives hooks/logging a
// human string without reflection. Grounded on original_source's ItemBase
// (include/csimpy/itembase.h), whose every store payload type derives from
// it for exactly this clone()/describe() pair.
type Item interface {
	Clone() any
	Describe() string
}

type storeGetWaiter struct {
	filter func(any) bool
	prio   Priority
	event  *Event
}

type storePutWaiter struct {
	item  any
	prio  Priority
	event *Event
}

// Store is the typed resource: a bounded FIFO item buffer with separate
// High/Low put and get waiter queues, matching csimpy's Store (filtered
// get, prioritized admission).
type Store struct {
	env  *Environment
	name string

	capacity int
	items    []any

	putWaiters [2][]*storePutWaiter // indexed by Priority
	getWaiters [2][]*storeGetWaiter
}

// NewStore creates a Store with the given item capacity.
func NewStore(env *Environment, capacity int, name string) *Store {
	if capacity <= 0 {
		panic("desim: store capacity must be positive")
	}
	return &Store{env: env, name: name, capacity: capacity}
}

// Name returns the store's diagnostic name.
func (s *Store) Name() string { return s.name }

// Size returns the number of items currently held.
func (s *Store) Size() int { return len(s.items) }

// Capacity returns the configured capacity.
func (s *Store) Capacity() int { return s.capacity }

// Put returns an Event resolved once item has been appended to items. If
// item implements Item, a Clone of it is stored (put-by-value); otherwise
// the value itself is stored, transferring notional ownership into the
// store.
func (s *Store) Put(item any, prio Priority) *Event {
	e := newEvent(s.env)

	stored := item
	if cloner, ok := item.(Item); ok {
		stored = cloner.Clone()
	}

	w := &storePutWaiter{item: stored, prio: prio, event: e}
	s.putWaiters[prio] = append(s.putWaiters[prio], w)
	e.onCancel = func() { s.removeWaiter(e) }

	s.tryAdmitPut(w, prio)

	return e
}

// Get returns an Event resolved once an item matching filter (nil matches
// anything) has been removed from items and handed to the waiter. Gets
// always transfer ownership of the returned item out of the store.
func (s *Store) Get(filter func(any) bool, prio Priority) *Event {
	e := newEvent(s.env)
	w := &storeGetWaiter{filter: filter, prio: prio, event: e}
	s.getWaiters[prio] = append(s.getWaiters[prio], w)
	e.onCancel = func() { s.removeWaiter(e) }

	s.tryAdmitGet(w)

	return e
}

// tryAdmitPut admits w immediately if queue space is free, honoring put's
// head-of-line blocking: even a brand-new waiter must wait if an earlier
// same- or higher-priority waiter is still queued ahead of it.
func (s *Store) tryAdmitPut(w *storePutWaiter, prio Priority) {
	if len(s.putWaiters[prio]) == 0 || s.putWaiters[prio][0] != w {
		return
	}
	if len(s.items) >= s.capacity {
		return
	}
	s.putWaiters[prio] = s.putWaiters[prio][1:]
	s.items = append(s.items, w.item)
	w.event.succeed(nil)
	s.admitAfterPut()
}

func (s *Store) tryAdmitGet(w *storeGetWaiter) {
	idx := s.findItem(w.filter)
	if idx < 0 {
		return
	}
	s.removeGetWaiter(w)
	item := s.items[idx]
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	w.event.succeed(item)
	s.admitAfterGet()
}

// findItem scans items in insertion order for the first one filter accepts.
func (s *Store) findItem(filter func(any) bool) int {
	for i, it := range s.items {
		if filter == nil || filter(it) {
			return i
		}
	}
	return -1
}

// admitGets walks High then Low get-waiters. Unlike Container, a get that
// cannot be satisfied by the filter does NOT block the ones behind it —
// only capacity blocks put admission, per spec.md's matching rule ("scan
// items... if found... fire"), so this loop only removes waiters it
// actually satisfies and otherwise leaves the queue untouched in order.
func (s *Store) admitGets() {
	for _, prio := range [2]Priority{High, Low} {
		i := 0
		for i < len(s.getWaiters[prio]) {
			w := s.getWaiters[prio][i]
			idx := s.findItem(w.filter)
			if idx < 0 {
				i++
				continue
			}
			s.getWaiters[prio] = append(s.getWaiters[prio][:i], s.getWaiters[prio][i+1:]...)
			item := s.items[idx]
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			w.event.succeed(item)
		}
	}
}

// admitPuts walks High then Low put-waiters, honoring head-of-line blocking
// within the merged capacity: stop at the first waiter that doesn't fit.
func (s *Store) admitPuts() {
	for _, prio := range [2]Priority{High, Low} {
		for len(s.putWaiters[prio]) > 0 {
			if len(s.items) >= s.capacity {
				return
			}
			w := s.putWaiters[prio][0]
			s.putWaiters[prio] = s.putWaiters[prio][1:]
			s.items = append(s.items, w.item)
			w.event.succeed(nil)
		}
	}
}

func (s *Store) admitAfterPut() {
	s.admitGets()
	s.admitPuts()
}

func (s *Store) admitAfterGet() {
	s.admitPuts()
	s.admitGets()
}

func (s *Store) removeGetWaiter(w *storeGetWaiter) {
	for _, prio := range [2]Priority{High, Low} {
		for i, cand := range s.getWaiters[prio] {
			if cand == w {
				s.getWaiters[prio] = append(s.getWaiters[prio][:i], s.getWaiters[prio][i+1:]...)
				return
			}
		}
	}
}

// removeWaiter is used by Interrupt to drop a cancelled get/put from its
// queue so later admission passes skip it.
func (s *Store) removeWaiter(e *Event) {
	for _, prio := range [2]Priority{High, Low} {
		for i, w := range s.putWaiters[prio] {
			if w.event == e {
				s.putWaiters[prio] = append(s.putWaiters[prio][:i], s.putWaiters[prio][i+1:]...)
				return
			}
		}
		for i, w := range s.getWaiters[prio] {
			if w.event == e {
				s.getWaiters[prio] = append(s.getWaiters[prio][:i], s.getWaiters[prio][i+1:]...)
				return
			}
		}
	}
}
