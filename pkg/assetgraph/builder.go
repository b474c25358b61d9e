package assetgraph

import "fmt"

// Builder constructs a Graph programmatically. It is the in-memory shape
// the teacher's linker.Files map took (id -> payload, entrypoints tracked
// alongside), generalized from "file contents" to the richer Asset/
// Dependency model the bundling core needs. Unit tests for pkg/bundler
// build every fixture this way.
type Builder struct {
	g *Graph
}

// NewBuilder starts an empty graph.
func NewBuilder() *Builder {
	return &Builder{g: &Graph{
		assets:       map[string]*Asset{},
		deps:         map[string]*Dependency{},
		depsOf:       map[string][]string{},
		entryTargets: map[string]*Target{},
	}}
}

// AddAsset registers an asset. Meta is initialized to an empty map if nil,
// since the core assumes it can always write ShouldWrapKey.
func (b *Builder) AddAsset(a Asset) *Builder {
	if a.Meta == nil {
		a.Meta = Meta{}
	}
	cp := a
	b.g.assets[a.ID] = &cp
	return b
}

// AddEntry marks an asset id as a build entry point, with the output
// target PrimaryBundler assigns to the bundle it opens. Build accepts a nil
// target, but an entry has no group to inherit one from, so PrimaryBundler
// then fails with ErrMissingTarget when it opens the entry's group.
func (b *Builder) AddEntry(assetID string, target *Target) *Builder {
	b.g.entries = append(b.g.entries, assetID)
	b.g.entryTargets[assetID] = target
	return b
}

// AddDependency declares a dependency from sourceAssetID, resolving to
// resolvesTo (in order). dep.ID must be unique across the whole graph.
func (b *Builder) AddDependency(sourceAssetID string, dep Dependency, resolvesTo ...string) *Builder {
	if dep.Meta == nil {
		dep.Meta = Meta{}
	}
	dep.sourceAssetID = sourceAssetID
	dep.resolvedIDs = resolvesTo
	cp := dep
	b.g.deps[dep.ID] = &cp
	b.g.depsOf[sourceAssetID] = append(b.g.depsOf[sourceAssetID], dep.ID)
	return b
}

// Build validates referential integrity (every dependency's source and
// resolved ids must exist) and returns the finished graph.
func (b *Builder) Build() (*Graph, error) {
	for _, id := range b.g.entries {
		if _, ok := b.g.assets[id]; !ok {
			return nil, fmt.Errorf("assetgraph: entry asset %q not registered", id)
		}
	}
	for _, d := range b.g.deps {
		if _, ok := b.g.assets[d.sourceAssetID]; !ok {
			return nil, fmt.Errorf("assetgraph: dependency %q has unknown source asset %q", d.ID, d.sourceAssetID)
		}
		for _, rid := range d.resolvedIDs {
			if _, ok := b.g.assets[rid]; !ok {
				return nil, fmt.Errorf("assetgraph: dependency %q resolves to unknown asset %q", d.ID, rid)
			}
		}
	}
	return b.g, nil
}
