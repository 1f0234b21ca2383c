// Package scheduler implements a single-worker timer queue for delayed
// and fixed-rate task execution.
package scheduler

import (
	"container/heap"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Clock abstracts time operations for testing.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// realClock uses the actual system time.
type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// entry is one scheduled task. A non-zero period marks a fixed-rate
// task that is re-queued after every firing.
type entry struct {
	at     time.Time
	period time.Duration
	task   func()
	seq    uint64
}

// timerQueue is a min-heap of entries ordered by due time. Entries with
// equal due times fire in scheduling order.
type timerQueue []*entry

func (q timerQueue) Len() int { return len(q) }
func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}
func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(*entry)) }
func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler executes scheduled tasks on a single worker goroutine.
// Because there is only one worker, task runs are strictly serialized:
// a fixed-rate task whose run overshoots its period delays the next
// firing instead of overlapping with it. A fixed-rate task's next due
// time is always the previous due time plus the period, independent of
// how long the run took.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	clock   Clock
	queue   timerQueue
	seq     uint64
	stopped bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// New creates a Scheduler and starts its worker goroutine.
func New(logger *slog.Logger) *Scheduler {
	s := &Scheduler{
		logger: logger.With("component", "scheduler"),
		clock:  realClock{},
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// SetClock sets a custom clock for testing. It must be called before
// any task is scheduled.
func (s *Scheduler) SetClock(c Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = c
}

// ScheduleOnce schedules task to run once after delay. Scheduling on a
// shut-down Scheduler is a no-op.
func (s *Scheduler) ScheduleOnce(task func(), delay time.Duration) {
	s.schedule(task, delay, 0)
}

// ScheduleAtFixedRate schedules task to run after initialDelay and then
// repeatedly, with successive due times spaced exactly period apart.
// Scheduling on a shut-down Scheduler is a no-op.
func (s *Scheduler) ScheduleAtFixedRate(task func(), initialDelay, period time.Duration) {
	s.schedule(task, initialDelay, period)
}

func (s *Scheduler) schedule(task func(), delay, period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.seq++
	heap.Push(&s.queue, &entry{
		at:     s.clock.Now().Add(delay),
		period: period,
		task:   task,
		seq:    s.seq,
	})
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Shutdown cancels all pending and future firings and stops the worker.
// A task that is already running is allowed to finish. Shutdown is
// idempotent and does not wait for the in-flight task.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.queue = nil
	close(s.quit)
	s.mu.Unlock()
}

// Wait blocks until the worker goroutine has exited. Intended for
// tests and orderly process teardown after Shutdown.
func (s *Scheduler) Wait() {
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		var timer <-chan time.Time
		if len(s.queue) > 0 {
			next := s.queue[0]
			d := next.at.Sub(s.clock.Now())
			if d <= 0 {
				e := heap.Pop(&s.queue).(*entry)
				if e.period > 0 {
					heap.Push(&s.queue, &entry{
						at:     e.at.Add(e.period),
						period: e.period,
						task:   e.task,
						seq:    e.seq,
					})
				}
				s.mu.Unlock()
				s.runTask(e.task)
				continue
			}
			timer = s.clock.After(d)
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-timer:
		case <-s.quit:
			return
		}
	}
}

// runTask executes one task, containing panics so a failing task never
// kills the worker or cancels later firings.
func (s *Scheduler) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler: task panicked", "error", fmt.Sprintf("%v", r))
		}
	}()
	task()
}
