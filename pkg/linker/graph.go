package linker

import "github.com/coldog/bundle/pkg/assetgraph"

// BundleGraph is the MutableBundleGraph façade (spec §6): the output
// structure PrimaryBundler, OptimizingBundler and WrapMarker rewrite in
// place. The underlying asset graph is read-only to every pass except for
// Meta.
type BundleGraph struct {
	assetGraph *assetgraph.Graph

	bundles map[BundleID]*Bundle
	groups  map[GroupID]*BundleGroup

	// membership: bundle <-> bundle group, many-to-many.
	bundleGroups map[BundleID]map[GroupID]bool

	// containingBundles indexes, per asset id, every bundle currently
	// containing it — the inverse of Bundle.assets, kept in sync by every
	// mutation so FindBundlesWithAsset and FindBundlesWithDependency read
	// one set instead of asking every bundle whether it holds the asset.
	containingBundles map[string]map[BundleID]bool

	// assetRefs records cross-bundle-boundary references created when a
	// dependency resolves to an asset that lives in a different bundle
	// (spec §4.1's "asset reference edge").
	assetRefs map[string]map[BundleID]bool // dependency id -> referenced (target) bundle ids

	// internalized marks async dependencies resolved locally within a
	// bundle instead of through a separate bundle group load (spec §4.2
	// Step 4).
	internalized map[BundleID]map[string]bool // bundle id -> dependency ids

	// depGroups maps a dependency id to the bundle group it opened, used by
	// ResolveExternalDependency.
	depGroups map[string]GroupID

	nextBundleID BundleID
	nextGroupID  GroupID
}

// New creates an empty bundle graph over the given (already resolved)
// asset graph.
func New(ag *assetgraph.Graph) *BundleGraph {
	return &BundleGraph{
		assetGraph:        ag,
		bundles:           map[BundleID]*Bundle{},
		groups:            map[GroupID]*BundleGroup{},
		bundleGroups:      map[BundleID]map[GroupID]bool{},
		containingBundles: map[string]map[BundleID]bool{},
		assetRefs:         map[string]map[BundleID]bool{},
		internalized:      map[BundleID]map[string]bool{},
		depGroups:         map[string]GroupID{},
	}
}

// AssetGraph returns the read-only asset graph this bundle graph was built
// over.
func (g *BundleGraph) AssetGraph() *assetgraph.Graph { return g.assetGraph }

// Bundle looks up a bundle by id.
func (g *BundleGraph) Bundle(id BundleID) *Bundle { return g.bundles[id] }

// BundleGroup looks up a bundle group by id.
func (g *BundleGraph) BundleGroup(id GroupID) *BundleGroup { return g.groups[id] }

// Bundles returns every bundle in the graph, ordered by id for determinism.
func (g *BundleGraph) Bundles() []*Bundle {
	out := make([]*Bundle, 0, len(g.bundles))
	for id := BundleID(0); id < g.nextBundleID; id++ {
		if b, ok := g.bundles[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// BundleGroups returns every bundle group in the graph, ordered by id.
func (g *BundleGraph) BundleGroups() []*BundleGroup {
	out := make([]*BundleGroup, 0, len(g.groups))
	for id := GroupID(0); id < g.nextGroupID; id++ {
		if grp, ok := g.groups[id]; ok {
			out = append(out, grp)
		}
	}
	return out
}

// reachableWithinBundleExcluding is reachableWithinBundle with excludeID
// treated as cut out of the graph: it is never visited and never walked
// through. RemoveAssetGraphFromBundle uses this to ask "does some other root
// still need this asset via a path that doesn't run through the asset being
// removed" — a plain reachableWithinBundle(root, ...) can't answer that,
// since the edge into excludeID is still sitting right there in the
// (immutable) asset graph.
func (g *BundleGraph) reachableWithinBundleExcluding(rootID, bundleType, excludeID string) map[string]bool {
	visited := map[string]bool{}
	if rootID == excludeID {
		return visited
	}
	visited[rootID] = true
	queue := []string{rootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, dep := range g.assetGraph.DependenciesOf(id) {
			if dep.IsEntry || dep.IsAsync {
				continue
			}
			for _, rid := range dep.ResolvedAssetIDs() {
				if rid == excludeID || visited[rid] {
					continue
				}
				resolved, ok := g.assetGraph.Asset(rid)
				if !ok || resolved.IsIsolated || resolved.IsInline || resolved.Type != bundleType {
					continue
				}
				visited[rid] = true
				queue = append(queue, rid)
			}
		}
	}
	return visited
}

// reachableWithinBundle walks the dependency graph from rootID, staying
// within the same bundle: it stops at dependencies that are entry/async
// (they open their own bundle group) and at resolved assets that are
// isolated, inline, or of a different type than bundleType (those belong
// to a different bundle, linked back in via an asset reference instead).
// This is the shared definition of "an asset's reachable subgraph" used by
// both AddAssetGraphToBundle and RemoveAssetGraphFromBundle, so containment
// stays closed under reachability (spec §3 invariant 2) no matter which
// mutation touched it last.
func (g *BundleGraph) reachableWithinBundle(rootID, bundleType string) []string {
	visited := map[string]bool{rootID: true}
	order := []string{rootID}
	queue := []string{rootID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, dep := range g.assetGraph.DependenciesOf(id) {
			if dep.IsEntry || dep.IsAsync {
				continue
			}
			for _, rid := range dep.ResolvedAssetIDs() {
				resolved, ok := g.assetGraph.Asset(rid)
				if !ok || resolved.IsIsolated || resolved.IsInline || resolved.Type != bundleType {
					continue
				}
				if visited[rid] {
					continue
				}
				visited[rid] = true
				order = append(order, rid)
				queue = append(queue, rid)
			}
		}
	}
	return order
}
