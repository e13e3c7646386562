// scheduler/scheduler.go
package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Task is one scheduled callback. Interval > 0 reschedules after each run.
type Task struct {
	ID       int64
	Execute  time.Time
	Interval time.Duration
	Callback func()
	index    int
}

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	return q[i].Execute.Before(q[j].Execute)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*Task)
	task.index = n
	*q = append(*q, task)
}

func (q *taskQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// Scheduler runs callbacks off a min-heap of due times with a coarse tick.
// Used for periodic housekeeping (the session phase report); nothing on the
// gameplay path depends on it.
type Scheduler struct {
	queue  taskQueue
	mutex  sync.Mutex
	nextID int64
	done   chan struct{}
	once   sync.Once
}

func New() *Scheduler {
	s := &Scheduler{
		queue:  make(taskQueue, 0),
		nextID: 1,
		done:   make(chan struct{}),
	}
	heap.Init(&s.queue)
	go s.process()
	return s
}

// Schedule registers a callback to run after delay, repeating every interval
// if interval > 0. Returns the task id for Cancel.
func (s *Scheduler) Schedule(delay, interval time.Duration, callback func()) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task := &Task{
		ID:       s.nextID,
		Execute:  time.Now().Add(delay),
		Interval: interval,
		Callback: callback,
	}
	s.nextID++

	heap.Push(&s.queue, task)
	return task.ID
}

// Cancel removes a pending task.
func (s *Scheduler) Cancel(taskID int64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, task := range s.queue {
		if task.ID == taskID {
			heap.Remove(&s.queue, i)
			break
		}
	}
}

// Stop shuts the tick loop down. Pending tasks never fire afterwards.
func (s *Scheduler) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *Scheduler) process() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			for _, task := range s.due(time.Now()) {
				go task.Callback()
			}
		}
	}
}

// due pops every task whose time has come, rescheduling repeating ones.
func (s *Scheduler) due(now time.Time) []*Task {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var ready []*Task
	for s.queue.Len() > 0 {
		task := s.queue[0]
		if task.Execute.After(now) {
			break
		}

		heap.Pop(&s.queue)
		ready = append(ready, task)

		if task.Interval > 0 {
			task.Execute = now.Add(task.Interval)
			heap.Push(&s.queue, task)
		}
	}
	return ready
}
