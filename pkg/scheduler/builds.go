package scheduler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/coldog/bundle/internal/bundlelog"
)

// BuildTarget is one independent build the host wants produced — e.g. one
// HTML entry point's asset graph, or one target environment. Each target
// owns its bundle graph exclusively; RunBuilds never shares mutable state
// across targets, so unlike Pipeline there is nothing to order between
// them.
type BuildTarget struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunBuilds runs every target, bounded by concurrency workers, each
// assigned a trace id for log correlation. The first target to fail
// cancels the shared context so the remaining in-flight targets can stop
// early; RunBuilds returns that first error once every target has
// returned, or nil if all of them succeeded.
func RunBuilds(ctx context.Context, concurrency int, targets []BuildTarget) error {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, target := range targets {
		sem <- struct{}{}
		wg.Add(1)
		go func(t BuildTarget) {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			if err := runBuildTarget(ctx, t); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()
	return firstErr
}

// runBuildTarget runs a single target's pipeline, logging entry/exit at
// info level with a trace id, matching the per-build log correlation every
// CLI in the retrieval pack attaches to concurrent work.
func runBuildTarget(ctx context.Context, t BuildTarget) error {
	traceID := uuid.New().String()
	bundlelog.Info("build starting", "target", t.Name, "trace", traceID)
	if err := t.Run(ctx); err != nil {
		bundlelog.Error("build failed", "target", t.Name, "trace", traceID, "err", err)
		return err
	}
	bundlelog.Info("build finished", "target", t.Name, "trace", traceID)
	return nil
}
