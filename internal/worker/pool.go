// Package worker renders tiles in parallel.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/MeKo-Tech/latticenoise/internal/tile"
)

// Renderer produces one tile and returns where it was stored.
type Renderer interface {
	RenderTile(ctx context.Context, coords tile.Coords) (path string, err error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, coords tile.Coords) (string, error)

// RenderTile calls f.
func (f RendererFunc) RenderTile(ctx context.Context, coords tile.Coords) (string, error) {
	return f(ctx, coords)
}

// Task is a single tile to render.
type Task struct {
	Coords tile.Coords
}

// Tasks wraps coordinates into tasks.
func Tasks(coords []tile.Coords) []Task {
	tasks := make([]Task, len(coords))
	for i, c := range coords {
		tasks[i] = Task{Coords: c}
	}
	return tasks
}

// Result is the outcome of a task.
type Result struct {
	Task    Task
	Path    string
	Err     error
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Renderer   Renderer
	OnProgress ProgressFunc
	// FailFast cancels the remaining tasks after the first failure.
	FailFast bool
}

// Pool manages parallel tile rendering.
type Pool struct {
	workers    int
	renderer   Renderer
	onProgress ProgressFunc
	failFast   bool
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		renderer:   cfg.Renderer,
		onProgress: cfg.OnProgress,
		failFast:   cfg.FailFast,
	}
}

type indexed struct {
	idx  int
	task Task
}

// Run executes all tasks and returns one result per task, in task order.
// It blocks until every task finished or was skipped after cancellation;
// skipped tasks carry the context error.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	taskCh := make(chan indexed)
	results := make([]Result, len(tasks))
	handled := make([]bool, len(tasks))

	var (
		mu        sync.Mutex
		completed int
		failed    int
	)
	report := func(idx int, r Result) {
		mu.Lock()
		results[idx] = r
		handled[idx] = true
		completed++
		if r.Err != nil {
			failed++
		}
		c, f := completed, failed
		if p.onProgress != nil {
			p.onProgress(c, len(tasks), f)
		}
		mu.Unlock()

		if r.Err != nil && p.failFast {
			cancel()
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range taskCh {
				report(it.idx, p.render(ctx, it.task))
			}
		}()
	}

feed:
	for i, task := range tasks {
		select {
		case taskCh <- indexed{idx: i, task: task}:
		case <-ctx.Done():
			break feed
		}
	}
	close(taskCh)
	wg.Wait()

	// Tasks never handed to a worker get the cancellation error.
	for i, ok := range handled {
		if !ok {
			results[i] = Result{Task: tasks[i], Err: ctx.Err()}
		}
	}
	return results
}

func (p *Pool) render(ctx context.Context, task Task) Result {
	if err := ctx.Err(); err != nil {
		return Result{Task: task, Err: err}
	}

	start := time.Now()
	path, err := p.renderer.RenderTile(ctx, task.Coords)
	return Result{
		Task:    task,
		Path:    path,
		Err:     err,
		Elapsed: time.Since(start),
	}
}
