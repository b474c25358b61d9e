package linker

import (
	"sort"

	"github.com/coldog/bundle/pkg/assetgraph"
)

// GetDependencyAssets returns every asset a dependency resolves to.
func (g *BundleGraph) GetDependencyAssets(dep *assetgraph.Dependency) []*assetgraph.Asset {
	return g.assetGraph.Resolve(dep)
}

// GetDependencyResolution returns the first asset a dependency resolves
// to, or nil if it resolves to none. The bundle parameter is accepted for
// interface parity with hosts that resolve a dependency differently per
// bundle; this implementation resolves identically regardless of bundle
// since the underlying asset graph stores one resolution list per
// dependency.
func (g *BundleGraph) GetDependencyResolution(dep *assetgraph.Dependency, _ *Bundle) *assetgraph.Asset {
	assets := g.assetGraph.Resolve(dep)
	if len(assets) == 0 {
		return nil
	}
	return assets[0]
}

// ExternalResolutionKind distinguishes what an external (entry/async)
// dependency resolves to.
type ExternalResolutionKind int

const (
	// ResolvesToBundleGroup means the dependency opened a new bundle group.
	ResolvesToBundleGroup ExternalResolutionKind = iota
	// ResolvesToAsset means the dependency resolves directly to an asset
	// (used for e.g. an internalized or same-bundle-group reference).
	ResolvesToAsset
)

// ExternalResolution is the result of ResolveExternalDependency.
type ExternalResolution struct {
	Kind  ExternalResolutionKind
	Group *BundleGroup
	Asset *assetgraph.Asset
}

// registerGroupDependency records which bundle group a dependency opened,
// used by ResolveExternalDependency. Called by CreateBundleGroup when the
// group carries an opening dependency.
func (g *BundleGraph) registerGroupDependency(dep *assetgraph.Dependency, grp *BundleGroup) {
	if g.depGroups == nil {
		g.depGroups = map[string]GroupID{}
	}
	g.depGroups[dep.ID] = grp.ID
}

// ResolveExternalDependency reports what dep (an entry or async dependency)
// resolves to externally: the bundle group it opened, if any, else the
// asset it points to directly.
func (g *BundleGraph) ResolveExternalDependency(dep *assetgraph.Dependency) ExternalResolution {
	if gid, ok := g.depGroups[dep.ID]; ok {
		if grp, ok := g.groups[gid]; ok {
			return ExternalResolution{Kind: ResolvesToBundleGroup, Group: grp}
		}
	}
	return ExternalResolution{Kind: ResolvesToAsset, Asset: g.GetDependencyResolution(dep, nil)}
}

// FindBundlesWithAsset returns every bundle currently containing asset.
func (g *BundleGraph) FindBundlesWithAsset(asset *assetgraph.Asset) []*Bundle {
	return g.bundlesFromSet(g.containingBundles[asset.ID])
}

// FindBundlesWithDependency returns every bundle containing the asset a
// dependency is declared on.
func (g *BundleGraph) FindBundlesWithDependency(dep *assetgraph.Dependency) []*Bundle {
	return g.bundlesFromSet(g.containingBundles[dep.SourceAssetID()])
}

// AssetReferenceTargets returns the ids of every bundle a cross-bundle
// asset reference has been created for on dep (CreateAssetReference),
// ordered by id.
func (g *BundleGraph) AssetReferenceTargets(depID string) []BundleID {
	set := g.assetRefs[depID]
	out := make([]BundleID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (g *BundleGraph) bundlesFromSet(set map[BundleID]bool) []*Bundle {
	out := make([]*Bundle, 0, len(set))
	for id := BundleID(0); id < g.nextBundleID; id++ {
		if set[id] {
			out = append(out, g.bundles[id])
		}
	}
	return out
}

// GetBundleGroupsContainingBundle returns every group bundle is a member
// of.
func (g *BundleGraph) GetBundleGroupsContainingBundle(b *Bundle) []*BundleGroup {
	out := make([]*BundleGroup, 0)
	for id := GroupID(0); id < g.nextGroupID; id++ {
		if g.bundleGroups[b.ID][id] {
			out = append(out, g.groups[id])
		}
	}
	return out
}

// GetBundlesInBundleGroup returns every bundle belonging to grp.
func (g *BundleGraph) GetBundlesInBundleGroup(grp *BundleGroup) []*Bundle {
	return g.bundlesFromSet(grp.bundles)
}

// GetParentBundlesOfBundleGroup returns the bundles containing the
// dependency that opened grp — the bundles that will request grp's bundles
// at runtime. A bundle that has internalized grp's opening dependency
// (OptimizingBundler Step 4) no longer counts: it resolved the import
// locally and never issues the request that would otherwise make grp a
// child of it, which is what lets Step 5 find it newly orphaned.
func (g *BundleGraph) GetParentBundlesOfBundleGroup(grp *BundleGroup) []*Bundle {
	if grp.Dependency == nil {
		return nil
	}
	var out []*Bundle
	for _, b := range g.FindBundlesWithDependency(grp.Dependency) {
		if !g.IsInternalized(b, grp.Dependency) {
			out = append(out, b)
		}
	}
	return out
}

// GetSiblingBundles returns every bundle sharing at least one bundle group
// with b, excluding b itself.
func (g *BundleGraph) GetSiblingBundles(b *Bundle) []*Bundle {
	seen := map[BundleID]bool{b.ID: true}
	out := []*Bundle{}
	for gid := range g.bundleGroups[b.ID] {
		grp := g.groups[gid]
		if grp == nil {
			continue
		}
		for id := BundleID(0); id < g.nextBundleID; id++ {
			if !grp.bundles[id] || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, g.bundles[id])
		}
	}
	return out
}

// IsAssetInAncestorBundles reports whether asset is contained in any
// ancestor of b — a bundle reachable by repeatedly following "parent
// bundles of a bundle group containing this bundle" upward.
func (g *BundleGraph) IsAssetInAncestorBundles(b *Bundle, asset *assetgraph.Asset) bool {
	visited := map[BundleID]bool{b.ID: true}
	var walk func(cur *Bundle) bool
	walk = func(cur *Bundle) bool {
		for gid := range g.bundleGroups[cur.ID] {
			grp := g.groups[gid]
			if grp == nil {
				continue
			}
			for _, parent := range g.GetParentBundlesOfBundleGroup(grp) {
				if visited[parent.ID] {
					continue
				}
				visited[parent.ID] = true
				if parent.HasAsset(asset.ID) {
					return true
				}
				if walk(parent) {
					return true
				}
			}
		}
		return false
	}
	return walk(b)
}

// GetTotalSize returns asset's own transformed byte size; the sizes of the
// assets it depends on are not included. OptimizingBundler Step 3 sums this
// over the assets it keys into a candidate, and the children it skips after
// keying an asset are not counted.
func (g *BundleGraph) GetTotalSize(asset *assetgraph.Asset) uint64 {
	return asset.Size
}
