// Package bundler implements the bundling core: three passes over a
// linker.BundleGraph that turn an explicit asset graph into a finished,
// optimized bundle graph. Run wires them together in the order spec §2
// mandates: PrimaryBundler, then OptimizingBundler, then WrapMarker.
package bundler

import (
	"context"

	"github.com/coldog/bundle/pkg/linker"
	"github.com/coldog/bundle/pkg/scheduler"
)

// Run executes the full bundling pipeline over g using cfg for
// OptimizingBundler's tunables. The three passes run strictly in sequence
// via scheduler.Pipeline, a plain sequential loop, which gives the
// single-threaded, synchronous contract spec §5 requires.
func Run(ctx context.Context, g *linker.BundleGraph, cfg Config) error {
	return scheduler.Pipeline(ctx,
		func(context.Context) error { return RunPrimary(g) },
		func(context.Context) error { return RunOptimizing(g, cfg) },
		func(context.Context) error {
			RunWrapMarker(g)
			return nil
		},
	)
}
