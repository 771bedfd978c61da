// timer/timer.go
package timer

import (
	"container/heap"
	"sync"
	"time"
)

type task struct {
	id       int64
	execute  time.Time
	callback func()
	index    int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].execute.Before(q[j].execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	t := x.(*task)
	t.index = n
	*q = append(*q, t)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	t := old[n-1]
	t.index = -1
	*q = old[0 : n-1]
	return t
}

// Scheduler runs one-shot callbacks after a delay. Turn deadlines are its
// only client; a cancelled id never fires.
type Scheduler struct {
	queue  taskQueue
	mutex  sync.Mutex
	nextID int64
	stop   chan struct{}
	once   sync.Once
}

// NewScheduler starts the scheduler loop.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue:  make(taskQueue, 0),
		nextID: 1,
		stop:   make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.process()
	return s
}

// Schedule registers callback to run once after delay and returns its id.
func (s *Scheduler) Schedule(delay time.Duration, callback func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	t := &task{
		id:       s.nextID,
		execute:  time.Now().Add(delay),
		callback: callback,
	}
	s.nextID++

	heap.Push(&s.queue, t)
	return t.id
}

// Cancel removes a pending task. Cancelling an already-fired or unknown id
// is a no-op.
func (s *Scheduler) Cancel(id int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, t := range s.queue {
		if t.id == id {
			heap.Remove(&s.queue, i)
			break
		}
	}
}

// Close stops the scheduler loop. Pending tasks never fire.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		close(s.stop)
	})
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			var due []*task

			s.mutex.Lock()
			for s.queue.Len() > 0 {
				t := s.queue[0]
				if t.execute.After(now) {
					break
				}
				heap.Pop(&s.queue)
				due = append(due, t)
			}
			s.mutex.Unlock()

			for _, t := range due {
				go t.callback()
			}

		case <-s.stop:
			return
		}
	}
}
