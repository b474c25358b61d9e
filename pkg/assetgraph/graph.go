package assetgraph

import "fmt"

// Graph is the read-only asset graph the bundling core consumes. It is
// built once (by a Builder, or by BuildFromDir) and never mutated by
// pkg/bundler, except for the Meta bag on its assets and dependencies.
type Graph struct {
	assets map[string]*Asset
	deps   map[string]*Dependency

	// depsOf preserves declaration order per asset, which PrimaryBundler's
	// DFS must respect for deterministic traversal (spec §5).
	depsOf map[string][]string

	entries      []string
	entryTargets map[string]*Target
}

// Asset looks up an asset by id.
func (g *Graph) Asset(id string) (*Asset, bool) {
	a, ok := g.assets[id]
	return a, ok
}

// MustAsset looks up an asset by id, panicking if absent. Used internally
// once a dependency's resolvedIDs have already been validated at build
// time — a missing id at that point means the graph was built incorrectly,
// which is a programmer error, not a runtime condition to recover from.
func (g *Graph) MustAsset(id string) *Asset {
	a, ok := g.assets[id]
	if !ok {
		panic(fmt.Sprintf("assetgraph: unknown asset %q", id))
	}
	return a
}

// Dependency looks up a dependency by id.
func (g *Graph) Dependency(id string) (*Dependency, bool) {
	d, ok := g.deps[id]
	return d, ok
}

// DependenciesOf returns every dependency declared directly on the given
// asset, in declaration order.
func (g *Graph) DependenciesOf(assetID string) []*Dependency {
	ids := g.depsOf[assetID]
	out := make([]*Dependency, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.deps[id])
	}
	return out
}

// Resolve returns the assets a dependency resolves to, in order.
func (g *Graph) Resolve(dep *Dependency) []*Asset {
	out := make([]*Asset, 0, len(dep.resolvedIDs))
	for _, id := range dep.resolvedIDs {
		if a, ok := g.assets[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Entries lists the asset ids declared as build entry points, in the order
// they were added.
func (g *Graph) Entries() []string {
	out := make([]string, len(g.entries))
	copy(out, g.entries)
	return out
}

// EntryTarget returns the output target declared for an entry asset, or
// nil if none was given (PrimaryBundler then requires an inherited target,
// which an entry never has — raising ErrMissingTarget).
func (g *Graph) EntryTarget(assetID string) *Target {
	return g.entryTargets[assetID]
}
