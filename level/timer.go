package level

import "container/heap"

// TimerFunc is a one-shot callback dispatched once the level's tick counter
// reaches a timer's trigger tick. cell is nil if the timer was scheduled at
// an out-of-bounds position.
type TimerFunc func(lvl *Level, cell *LevelCell)

type timerEntry struct {
	triggerAt TickCounter
	x, y      CoordInt
	fn        TimerFunc
}

// timerQueue is a tick-ordered min-heap of pending timers.
type timerQueue []*timerEntry

func (q timerQueue) Len() int            { return len(q) }
func (q timerQueue) Less(i, j int) bool  { return q[i].triggerAt < q[j].triggerAt }
func (q timerQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *timerQueue) Push(x interface{}) { *q = append(*q, x.(*timerEntry)) }
func (q *timerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// scheduleTimer queues fn to run once l.ticks reaches triggerAt, bound to the
// cell at (x, y).
func (l *Level) scheduleTimer(triggerAt TickCounter, x, y CoordInt, fn TimerFunc) {
	heap.Push(&l.timers, &timerEntry{triggerAt: triggerAt, x: x, y: y, fn: fn})
}

// runDueTimers pops and runs every timer whose trigger tick has arrived.
func (l *Level) runDueTimers() {
	for len(l.timers) > 0 && l.timers[0].triggerAt <= l.ticks {
		e := heap.Pop(&l.timers).(*timerEntry)
		var cell *LevelCell
		if e.x >= 0 && e.y >= 0 && e.x < l.width && e.y < l.height {
			cell = l.cellAt(e.x, e.y)
		}
		e.fn(l, cell)
	}
}
