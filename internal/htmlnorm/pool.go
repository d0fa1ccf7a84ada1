package htmlnorm

import (
	"context"
	"runtime"

	"github.com/4thel00z/slurp-go/internal/domain"
	"github.com/4thel00z/slurp-go/internal/fn"
)

// Pool bounds how many HTML parses run at once, keeping the CPU-bound
// parse work from starving the goroutines driving network I/O elsewhere
// in the worker. It plays the role the original's ProcessPoolExecutor
// played, without the process/IPC overhead Go doesn't need for this.
type Pool struct {
	sem chan struct{}
}

// NewPool creates a Pool bounded at workers concurrent parses. workers
// <= 0 defaults to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, workers)}
}

// Normalize returns a copy of result whose Content is normalized plain
// text; result itself is left unchanged. It is an fn.Stage and belongs
// directly in a download mutator chain.
func (p *Pool) Normalize(ctx context.Context, result *domain.TaskResult) fn.Result[*domain.TaskResult] {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return fn.Err[*domain.TaskResult](ctx.Err())
	}
	defer func() { <-p.sem }()

	out := *result
	out.Content = Parse(result.Content)
	return fn.Ok(&out)
}
