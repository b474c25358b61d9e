// Package linker holds the mutable bundle graph: the output structure the
// bundling core (pkg/bundler) rewrites in three passes. It descends from
// the teacher's pkg/linker, which walked entrypoints into a flat
// Bundle/Chunk/Files shape; this version generalizes Chunk into BundleGroup
// and Files' single bundle into a graph of many Bundles, each an arena
// entry addressed by a stable integer id (spec §9's "arena of nodes"
// pattern), with sparse many-to-many membership and containment relations
// kept as maps of sets keyed by those ids.
package linker

import "github.com/coldog/bundle/pkg/assetgraph"

// BundleID addresses a Bundle in the graph's arena.
type BundleID int

// GroupID addresses a BundleGroup in the graph's arena.
type GroupID int

// Bundle is an unordered collection of same-type assets rooted at one or more
// main entries (spec §3).
type Bundle struct {
	ID           BundleID
	Type         string
	Env          assetgraph.Env
	Target       *assetgraph.Target
	IsEntry      bool
	IsInline     bool
	IsSplittable bool
	UniqueKey    string

	mainEntry string          // asset id, "" for bundles with no single main entry (e.g. a shared bundle)
	roots     map[string]bool // every asset explicitly added as a root via AddAssetGraphToBundle
	assets    map[string]bool // full containment set: roots plus their reachable subgraphs
}

// GetMainEntry returns the asset this bundle was created for, or nil for a
// bundle with no single main entry (e.g. a shared bundle carries several
// source roots and has none). mainEntry, once set, is always the id of an
// asset already resolved by the caller that created this bundle, so a
// missing lookup here means the graph itself is broken — MustAsset panics
// rather than silently returning nil.
func (b *Bundle) GetMainEntry(g *BundleGraph) *assetgraph.Asset {
	if b.mainEntry == "" {
		return nil
	}
	return g.assetGraph.MustAsset(b.mainEntry)
}

// HasAsset reports whether assetID is contained in this bundle.
func (b *Bundle) HasAsset(assetID string) bool {
	return b.assets[assetID]
}

// Assets returns every asset id contained in this bundle, in no particular
// order. Callers that need determinism (e.g. for size summation, order
// doesn't matter; for display, sort the result).
func (b *Bundle) Assets() []string {
	out := make([]string, 0, len(b.assets))
	for id := range b.assets {
		out = append(out, id)
	}
	return out
}

// Roots returns every asset id explicitly added to this bundle via
// AddAssetGraphToBundle, in no particular order.
func (b *Bundle) Roots() []string {
	out := make([]string, 0, len(b.roots))
	for id := range b.roots {
		out = append(out, id)
	}
	return out
}

// BundleGroup is a set of bundles the runtime loads together to satisfy one
// load point (spec §3).
type BundleGroup struct {
	ID         GroupID
	Dependency *assetgraph.Dependency // the dependency that opened this group
	Target     *assetgraph.Target

	bundles map[BundleID]bool
}
