package events

import "container/heap"

// scheduled is one pending (day, event) pair plus the monotone insertion
// counter that gives the heap its stability: without it container/heap's
// sift operations would reorder same-day events nondeterministically,
// breaking the FIFO-within-a-day guarantee the scheduler requires.
type scheduled struct {
	day   uint64
	seq   uint64
	event Event
}

type scheduledHeap []scheduled

func (h scheduledHeap) Len() int { return len(h) }
func (h scheduledHeap) Less(i, j int) bool {
	if h[i].day != h[j].day {
		return h[i].day < h[j].day
	}
	return h[i].seq < h[j].seq
}
func (h scheduledHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scheduledHeap) Push(x any)   { *h = append(*h, x.(scheduled)) }
func (h *scheduledHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is the scheduler's min-heap, ordered by (day, insertion order).
type Queue struct {
	h       scheduledHeap
	nextSeq uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Schedule pushes ev to fire on day.
func (q *Queue) Schedule(day uint64, ev Event) {
	heap.Push(&q.h, scheduled{day: day, seq: q.nextSeq, event: ev})
	q.nextSeq++
}

// Pop removes and returns the earliest-scheduled event. ok is false when
// the queue is empty.
func (q *Queue) Pop() (day uint64, ev Event, ok bool) {
	if len(q.h) == 0 {
		return 0, nil, false
	}
	item := heap.Pop(&q.h).(scheduled)
	return item.day, item.event, true
}

// Peek returns the day of the earliest-scheduled event without removing
// it. ok is false when the queue is empty.
func (q *Queue) Peek() (day uint64, ok bool) {
	if len(q.h) == 0 {
		return 0, false
	}
	return q.h[0].day, true
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return len(q.h) }
