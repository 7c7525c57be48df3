package seoblog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ove9/seoblog/generate"
	"github.com/ove9/seoblog/post"
)

// fakeGenerator blocks each run until release is closed, reporting the
// illustrating stage once it starts.
type fakeGenerator struct {
	post    post.Post
	err     error
	release chan struct{}

	mu     sync.Mutex
	topics []string
	ctxErr error
}

func newFakeGenerator(p post.Post, err error) *fakeGenerator {
	return &fakeGenerator{post: p, err: err, release: make(chan struct{})}
}

func (g *fakeGenerator) Run(ctx context.Context, topic string, progress func(generate.Stage)) (post.Post, error) {
	g.mu.Lock()
	g.topics = append(g.topics, topic)
	g.mu.Unlock()

	progress(generate.StageIllustrating)
	select {
	case <-g.release:
	case <-ctx.Done():
		g.mu.Lock()
		g.ctxErr = ctx.Err()
		g.mu.Unlock()
		return post.Post{}, ctx.Err()
	}
	return g.post, g.err
}

func (g *fakeGenerator) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.topics...)
}

func finishedPost() post.Post {
	return post.Post{
		Title: "완성된 글",
		Blocks: []post.Block{
			{Type: post.Subheading, Content: "소제목"},
			{Type: post.ImageData, Content: "data:image/jpeg;base64,AAAA"},
			{Type: post.Paragraph, Content: "본문"},
		},
	}
}

func waitDone(t *testing.T, job *Job) {
	t.Helper()
	select {
	case <-job.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
	}
}

func TestJobLifecycleSuccess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newJobRegistry(ctx, time.Minute, time.Minute, nil)
	gen := newFakeGenerator(finishedPost(), nil)

	job := r.start("주제", gen)
	require.NotEmpty(t, job.ID)
	assert.Equal(t, StateLoading, job.Status().State)

	got, ok := r.get(job.ID)
	require.True(t, ok)
	assert.Same(t, job, got)

	require.Eventually(t, func() bool {
		return job.Status().Stage == generate.StageIllustrating
	}, time.Second, 5*time.Millisecond)

	close(gen.release)
	waitDone(t, job)

	st := job.Status()
	assert.Equal(t, StateSucceeded, st.State)
	assert.Equal(t, finishedPost(), st.Post)
	assert.NoError(t, st.Err)
	assert.False(t, st.Finished.IsZero())
	assert.Equal(t, []string{"주제"}, gen.Topics())
}

func TestJobLifecycleFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newJobRegistry(ctx, time.Minute, time.Minute, nil)
	boom := errors.New("image quota exceeded")
	gen := newFakeGenerator(post.Post{}, boom)
	close(gen.release)

	job := r.start("주제", gen)
	waitDone(t, job)

	st := job.Status()
	assert.Equal(t, StateFailed, st.State)
	assert.ErrorIs(t, st.Err, boom)
	assert.Empty(t, st.Post.Blocks)
}

func TestJobTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newJobRegistry(ctx, time.Minute, 20*time.Millisecond, nil)
	gen := newFakeGenerator(finishedPost(), nil)

	job := r.start("주제", gen)
	waitDone(t, job)

	st := job.Status()
	assert.Equal(t, StateFailed, st.State)
	assert.ErrorIs(t, st.Err, context.DeadlineExceeded)
}

func TestDiscardCancelsRunningJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newJobRegistry(ctx, time.Minute, time.Minute, nil)
	gen := newFakeGenerator(finishedPost(), nil)

	job := r.start("주제", gen)
	r.discard(job.ID)

	_, ok := r.get(job.ID)
	assert.False(t, ok)
	waitDone(t, job)
	assert.ErrorIs(t, job.Status().Err, context.Canceled)

	// Discarding an unknown id is a no-op.
	r.discard("missing")
}

func TestSweepDropsOnlyExpiredFinishedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	r := newJobRegistry(ctx, 10*time.Minute, time.Minute, clock)

	done := newFakeGenerator(finishedPost(), nil)
	close(done.release)
	finished := r.start("끝난 글", done)
	waitDone(t, finished)

	running := newFakeGenerator(finishedPost(), nil)
	defer close(running.release)
	loading := r.start("진행 중", running)

	assert.Equal(t, 0, r.sweep(now.Add(5*time.Minute)), "fresh jobs stay")
	assert.Equal(t, 1, r.sweep(now.Add(11*time.Minute)))
	assert.Equal(t, 1, r.len())

	_, ok := r.get(finished.ID)
	assert.False(t, ok)
	_, ok = r.get(loading.ID)
	assert.True(t, ok, "loading jobs are never swept")
}

func TestGetEmptyID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newJobRegistry(ctx, time.Minute, time.Minute, nil)
	_, ok := r.get("")
	assert.False(t, ok)
}

func TestJobStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", JobState(0).String())
}
