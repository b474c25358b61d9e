// Package scheduler runs the two concurrency shapes the bundling core's
// host actually needs: one build's fixed three-pass pipeline, which must
// run strictly in order (spec §5's "single-threaded and synchronous"
// per-build contract), and a set of independent build targets, which have
// no ordering constraints between them at all since each owns its own
// bundle graph exclusively. Earlier revisions of this package carried the
// teacher's general-purpose dependency-graph executor
// (`pkg/graph/graph.go`'s worker pool over an arbitrary `Nodes` adjacency
// list, with `ready`/`sendWork` cycle handling); neither use case here ever
// needs arbitrary dependency edges or cycle detection, so that machinery is
// gone — a pipeline is a plain sequential loop, and a fan-out (builds.go)
// is a plain bounded worker pool.
package scheduler

import "context"

// Stage is one pass of a single build's pipeline (PrimaryBundler,
// OptimizingBundler, or WrapMarker in pkg/bundler).
type Stage func(ctx context.Context) error

// Pipeline runs stages strictly in order: stage i+1 never starts until
// stage i has returned. A canceled context or a stage's error stops the
// chain immediately without running the remaining stages.
func Pipeline(ctx context.Context, stages ...Stage) error {
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stage(ctx); err != nil {
			return err
		}
	}
	return nil
}
