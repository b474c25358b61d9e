// Package assetgraph models the read-only input to the bundling core: the
// resolved graph of assets and dependencies that pkg/bundler turns into a
// bundle graph. Building this graph from real source — parsing, resolving,
// transforming — is explicitly out of scope for the core (spec §1); this
// package plays the "surrounding system" role just enough to exercise the
// core in tests and in cmd/bundledemo.
package assetgraph

// Meta is the open string-to-value bag carried by assets and dependencies.
// The bundling core only ever reads and writes one key on it (ShouldWrapKey),
// so rather than modelling a full tagged union we expose a narrow accessor
// for that key and let callers stash anything else they like.
type Meta map[string]any

// ShouldWrapKey is the meta key the core reads and writes to propagate the
// "must be wrapped in a module closure" flag (spec §4.3).
const ShouldWrapKey = "shouldWrap"

// ShouldWrap reports the boolean value of ShouldWrapKey, defaulting to false
// if unset or of an unexpected type.
func (m Meta) ShouldWrap() bool {
	if m == nil {
		return false
	}
	v, _ := m[ShouldWrapKey].(bool)
	return v
}

// SetShouldWrap sets ShouldWrapKey, creating the map on first write is the
// caller's responsibility — Asset and Dependency always carry a non-nil Meta.
func (m Meta) SetShouldWrap(v bool) {
	m[ShouldWrapKey] = v
}

// Env describes the environment an asset or bundle target executes in: a
// browser main thread, a worker, a node process, and so on.
type Env struct {
	Context    string
	Isolated   bool
	OutputFmt  string
}

// IsIsolated reports whether assets in this environment cannot share a
// runtime scope with ancestor bundles (e.g. a web worker or a node child
// process started via its own entry point).
func (e Env) IsIsolated() bool { return e.Isolated }

// Target describes where and how a bundle's output is destined to land:
// which environment it runs in, which directory it's written to, and the
// public URL prefix consumers use to load it. The core never writes files
// (spec §1 Non-goals) — Target is opaque data it threads through bundles.
type Target struct {
	Env       Env
	Dist      string
	PublicURL string
}

// Asset is an atomic transformable unit: one parsed, transformed module.
// Everything but Meta is read-only to the bundling core (spec §3).
type Asset struct {
	ID         string
	Type       string
	IsIsolated bool
	IsInline   bool
	Env        Env
	Size       uint64
	Meta       Meta
}
