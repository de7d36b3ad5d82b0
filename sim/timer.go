package sim

import "container/heap"

// EventQueue implements heap.Interface and orders events by timestamp.
// Events scheduled for the same step execute in scheduling order.
type EventQueue []*queued

type queued struct {
	ev  Event
	seq int
}

func (eq EventQueue) Len() int { return len(eq) }
func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}
func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(*queued))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Timer holds scheduled lifecycle events and fires them at the start of
// their timestep.
type Timer struct {
	q   EventQueue
	seq int
}

// NewTimer returns an empty timer.
func NewTimer() *Timer {
	return &Timer{}
}

// Schedule enqueues ev for execution at its timestamp.
func (t *Timer) Schedule(ev Event) {
	t.seq++
	heap.Push(&t.q, &queued{ev: ev, seq: t.seq})
}

// RunUpTo executes, in timestamp then scheduling order, every pending
// event with a timestamp at or before step.
func (t *Timer) RunUpTo(ctx *Context, step int) {
	for len(t.q) > 0 && t.q[0].ev.Timestamp() <= step {
		item := heap.Pop(&t.q).(*queued)
		item.ev.Execute(ctx)
	}
}

// Pending returns the number of events not yet executed.
func (t *Timer) Pending() int { return len(t.q) }
