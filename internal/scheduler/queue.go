package scheduler

// tier is a FIFO of tasks. Popped slots are nilled so finished closures can
// be collected; the backing array is compacted once half of it is dead.
type tier struct {
	tasks []*Task
	head  int
}

func (t *tier) push(task *Task) {
	t.tasks = append(t.tasks, task)
}

func (t *tier) pop() *Task {
	if t.head >= len(t.tasks) {
		return nil
	}

	task := t.tasks[t.head]
	t.tasks[t.head] = nil
	t.head++

	if t.head == len(t.tasks) {
		t.tasks = t.tasks[:0]
		t.head = 0
	} else if t.head > 32 && t.head*2 >= len(t.tasks) {
		n := copy(t.tasks, t.tasks[t.head:])
		clear(t.tasks[n:])
		t.tasks = t.tasks[:n]
		t.head = 0
	}

	return task
}

func (t *tier) len() int {
	return len(t.tasks) - t.head
}

// queue holds one tier per priority. It is not safe for concurrent use; the
// Scheduler guards it.
type queue struct {
	tiers [3]tier
}

func (q *queue) push(task *Task) {
	q.tiers[task.priority].push(task)
}

func (q *queue) pop(p Priority) *Task {
	return q.tiers[p].pop()
}

func (q *queue) lenOf(p Priority) int {
	return q.tiers[p].len()
}

func (q *queue) len() int {
	n := 0
	for i := range q.tiers {
		n += q.tiers[i].len()
	}
	return n
}
