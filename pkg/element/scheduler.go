package element

// Scheduler runs deferred work after the current task completes.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) { f(task) }

// MicrotaskQueue is a cooperative FIFO scheduler. Tasks run only when the owner
// calls Drain, which mirrors a browser draining its microtask queue at the end
// of a task. It is not safe for concurrent use.
type MicrotaskQueue struct {
	tasks []func()
}

// NewMicrotaskQueue returns an empty queue.
func NewMicrotaskQueue() *MicrotaskQueue {
	return &MicrotaskQueue{}
}

func (q *MicrotaskQueue) Schedule(task func()) {
	q.tasks = append(q.tasks, task)
}

// Drain runs queued tasks in order until the queue is empty, including tasks
// queued while draining. It returns the number of tasks run.
func (q *MicrotaskQueue) Drain() int {
	n := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		task()
		n++
	}
	q.tasks = nil
	return n
}

// Len returns the number of pending tasks.
func (q *MicrotaskQueue) Len() int {
	return len(q.tasks)
}
