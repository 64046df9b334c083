package desim

import "container/heap"

// eventQueue is a min-heap of scheduledItem ordered by (time, seq), the same
// shape as akita's sim.EventQueue (sim/eventqueue.go) generalized from a
// concrete Event type to the internal scheduledItem interface.
type eventQueue struct {
	items itemHeap
}

func newEventQueue() *eventQueue {
	q := &eventQueue{items: make(itemHeap, 0)}
	heap.Init(&q.items)
	return q
}

func (q *eventQueue) push(it scheduledItem) { heap.Push(&q.items, it) }

func (q *eventQueue) pop() scheduledItem {
	return heap.Pop(&q.items).(scheduledItem)
}

func (q *eventQueue) len() int { return len(q.items) }

type itemHeap []scheduledItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].time() != h[j].time() {
		return h[i].time() < h[j].time()
	}
	return h[i].seq() < h[j].seq()
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(scheduledItem))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}
