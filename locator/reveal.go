package locator

import "time"

// Timer is a scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual one.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type reveal struct {
	index int
	timer Timer
	fn    func()
}

// RevealQueue runs staggered marker reveals for one session at a time.
// It is owned by the event loop; timers hand their work back through post.
type RevealQueue struct {
	clock   Clock
	post    func(func()) bool
	session uint64
	pending []*reveal
}

func NewRevealQueue(clock Clock, post func(func()) bool) *RevealQueue {
	return &RevealQueue{clock: clock, post: post}
}

// Reset cancels every pending reveal and accepts only session from now on.
func (q *RevealQueue) Reset(session uint64) {
	for _, r := range q.pending {
		r.timer.Stop()
	}
	q.pending = nil
	q.session = session
}

// Schedule runs fn after delay unless session is superseded first.
// Reveals must be scheduled in index order; they fire in that order even
// if their timers do not.
func (q *RevealQueue) Schedule(session uint64, index int, delay time.Duration, fn func()) {
	if session != q.session {
		return
	}
	r := &reveal{index: index, fn: fn}
	q.pending = append(q.pending, r)
	r.timer = q.clock.AfterFunc(delay, func() {
		q.post(func() { q.fire(session, index) })
	})
}

func (q *RevealQueue) fire(session uint64, index int) {
	if session != q.session {
		return
	}
	for len(q.pending) > 0 && q.pending[0].index <= index {
		r := q.pending[0]
		q.pending = q.pending[1:]
		r.timer.Stop()
		r.fn()
	}
}

// Pending is the number of reveals yet to fire.
func (q *RevealQueue) Pending() int { return len(q.pending) }
