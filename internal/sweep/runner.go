package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/netdyn/internal/dynamo"
)

// Job is one independent simulation. Run must not share mutable state
// (integrators, random sources) with other jobs.
type Job struct {
	Params map[string]float64
	Run    func(ctx context.Context) (*dynamo.Result, error)
}

type Outcome struct {
	Params  map[string]float64
	Result  *dynamo.Result
	Err     error
	Elapsed time.Duration
}

type Runner struct {
	// Workers <= 0 uses GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Run executes jobs in parallel and returns outcomes in job order. The first
// failure cancels the remaining jobs; its error is returned once every
// worker has stopped.
func (r Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]Outcome, len(jobs))
	var (
		once     sync.Once
		firstErr error
	)

	dynamo.ParallelFor(len(jobs), 1, r.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			outcomes[i].Params = jobs[i].Params
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				continue
			}

			began := time.Now()
			res, err := jobs[i].Run(ctx)
			outcomes[i].Result = res
			outcomes[i].Err = err
			outcomes[i].Elapsed = time.Since(began)

			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
				logger.Warn("sweep job failed", "job", i, "params", jobs[i].Params, "err", err)
				continue
			}
			logger.Debug("sweep job finished", "job", i, "params", jobs[i].Params, "elapsed", outcomes[i].Elapsed)
		}
	})

	return outcomes, firstErr
}
