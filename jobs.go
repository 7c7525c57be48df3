package seoblog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ove9/seoblog/generate"
	"github.com/ove9/seoblog/post"
)

// JobState is the position of a generation cycle in the page state machine.
// A session without a job is idle.
type JobState int

const (
	StateLoading JobState = iota + 1
	StateSucceeded
	StateFailed
)

func (s JobState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Generator runs one generation cycle. *generate.Pipeline implements it.
type Generator interface {
	Run(ctx context.Context, topic string, progress func(generate.Stage)) (post.Post, error)
}

// Job is one generation cycle owned by a browser session.
type Job struct {
	ID      string
	Topic   string
	Created time.Time

	mu       sync.RWMutex
	state    JobState
	stage    generate.Stage
	post     post.Post
	err      error
	finished time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// JobStatus is a consistent copy of a job's mutable fields.
type JobStatus struct {
	State    JobState
	Stage    generate.Stage
	Post     post.Post
	Err      error
	Finished time.Time
}

// Status returns a snapshot of the job.
func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobStatus{
		State:    j.state,
		Stage:    j.stage,
		Post:     j.post,
		Err:      j.err,
		Finished: j.finished,
	}
}

// Done is closed once the job has succeeded or failed.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) setStage(s generate.Stage) {
	j.mu.Lock()
	j.stage = s
	j.mu.Unlock()
}

func (j *Job) finish(p post.Post, err error, at time.Time) {
	j.mu.Lock()
	if err != nil {
		j.state = StateFailed
		j.err = err
	} else {
		j.state = StateSucceeded
		j.post = p
	}
	j.finished = at
	j.mu.Unlock()
	close(j.done)
}

// jobRegistry holds in-flight and recently finished jobs in memory.
// Finished jobs older than ttl are swept; loading jobs are bounded by timeout.
type jobRegistry struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	base    context.Context
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

func newJobRegistry(base context.Context, ttl, timeout time.Duration, now func() time.Time) *jobRegistry {
	if now == nil {
		now = time.Now
	}
	r := &jobRegistry{
		jobs:    make(map[string]*Job),
		base:    base,
		ttl:     ttl,
		timeout: timeout,
		now:     now,
	}
	go r.sweeper()
	return r
}

func (r *jobRegistry) sweeper() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.base.Done():
			return
		case <-ticker.C:
			if n := r.sweep(r.now()); n > 0 {
				slog.Debug("jobs_swept", "count", n)
			}
		}
	}
}

// start registers a job for topic and runs gen in the background.
func (r *jobRegistry) start(topic string, gen Generator) *Job {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(r.base, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(r.base)
	}
	job := &Job{
		ID:      uuid.NewString(),
		Topic:   topic,
		Created: r.now(),
		state:   StateLoading,
		stage:   generate.StageDrafting,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	slog.Info("job_started", "job_id", job.ID, "topic", topic)
	go func() {
		defer cancel()
		p, err := gen.Run(ctx, topic, job.setStage)
		finished := r.now()
		job.finish(p, err, finished)
		if err != nil {
			slog.Warn("job_failed", "job_id", job.ID, "elapsed", finished.Sub(job.Created), "error", err)
			return
		}
		slog.Info("job_succeeded", "job_id", job.ID, "elapsed", finished.Sub(job.Created), "blocks", len(p.Blocks))
	}()
	return job
}

func (r *jobRegistry) get(id string) (*Job, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	return job, ok
}

// discard forgets a job and cancels it if it is still running.
func (r *jobRegistry) discard(id string) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	delete(r.jobs, id)
	r.mu.Unlock()
	if ok {
		job.cancel()
		slog.Debug("job_discarded", "job_id", id)
	}
}

// sweep drops finished jobs older than ttl and reports how many went.
func (r *jobRegistry) sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, job := range r.jobs {
		st := job.Status()
		if st.State == StateLoading || st.Finished.After(cutoff) {
			continue
		}
		delete(r.jobs, id)
		n++
	}
	return n
}

func (r *jobRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
