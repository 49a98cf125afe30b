package preview

import "tailor-preview/core/texture"

// DefaultQueueCapacity holds the oldest pending job plus the newest superseding one.
const DefaultQueueCapacity = 2

// JobQueue is a bounded FIFO of texture jobs.
// When full, a pushed job overwrites the most recently queued (tail) job.
// JobQueue is not safe for concurrent use; Preview guards it with its mutex.
type JobQueue struct {
	jobs     []texture.Job
	capacity int
}

// NewJobQueue creates a queue holding at most capacity jobs.
func NewJobQueue(capacity int) *JobQueue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &JobQueue{
		jobs:     make([]texture.Job, 0, capacity),
		capacity: capacity,
	}
}

// Push appends job, or overwrites the tail when the queue is full.
// It reports whether a queued job was overwritten.
func (q *JobQueue) Push(job texture.Job) (overwritten bool) {
	if len(q.jobs) == q.capacity {
		q.jobs[len(q.jobs)-1] = job
		return true
	}
	q.jobs = append(q.jobs, job)
	return false
}

// Pop removes and returns the head job.
func (q *JobQueue) Pop() (texture.Job, bool) {
	if len(q.jobs) == 0 {
		return nil, false
	}
	job := q.jobs[0]
	q.jobs[0] = nil
	q.jobs = q.jobs[1:]
	return job, true
}

// DropTail removes the most recently queued job.
func (q *JobQueue) DropTail() {
	if len(q.jobs) == 0 {
		return
	}
	q.jobs[len(q.jobs)-1] = nil
	q.jobs = q.jobs[:len(q.jobs)-1]
}

// Len returns the number of queued jobs.
func (q *JobQueue) Len() int {
	return len(q.jobs)
}

// Full reports whether the next Push will overwrite the tail.
func (q *JobQueue) Full() bool {
	return len(q.jobs) == q.capacity
}

// Clear drops every queued job.
func (q *JobQueue) Clear() {
	for i := range q.jobs {
		q.jobs[i] = nil
	}
	q.jobs = q.jobs[:0]
}

// Snapshot returns a copy of the queued jobs, head first.
func (q *JobQueue) Snapshot() []texture.Job {
	out := make([]texture.Job, len(q.jobs))
	copy(out, q.jobs)
	return out
}
