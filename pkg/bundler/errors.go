package bundler

import "errors"

// Fatal error kinds (spec §7). These indicate the host handed the core a
// malformed asset graph or violated the MutableBundleGraph contract — every
// other condition a pass might hit (no candidates, budget exhausted, a
// zero-size asset) is soft and simply skipped, never raised as an error.
// Matches the teacher's own convention in pkg/graph/graph.go (ErrUnsolvable)
// of plain sentinel errors rather than a third-party errors package — no
// repo in the retrieval pack imports one directly.
var (
	// ErrMissingContext is raised by PrimaryBundler when an intra-group
	// dependency is reached without an open bundle group.
	ErrMissingContext = errors.New("bundler: dependency reached with no open bundle group")

	// ErrMissingTarget is raised by PrimaryBundler when opening a bundle
	// group without any declared target.
	ErrMissingTarget = errors.New("bundler: bundle group opened with no target")

	// ErrExternalResolutionMismatch is raised by OptimizingBundler Step 4
	// when an async dependency's external resolution is not a bundle group.
	ErrExternalResolutionMismatch = errors.New("bundler: async dependency did not resolve to a bundle group")
)

// wrapErr attaches context to a sentinel error without losing errors.Is
// compatibility.
func wrapErr(sentinel error, context string) error {
	return &fatalError{sentinel: sentinel, context: context}
}

type fatalError struct {
	sentinel error
	context  string
}

func (e *fatalError) Error() string { return e.sentinel.Error() + ": " + e.context }
func (e *fatalError) Unwrap() error { return e.sentinel }
