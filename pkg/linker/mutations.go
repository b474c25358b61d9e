package linker

import "github.com/coldog/bundle/pkg/assetgraph"

// CreateBundleGroupOpts configures CreateBundleGroup.
type CreateBundleGroupOpts struct {
	Dependency *assetgraph.Dependency
	Target     *assetgraph.Target
}

// CreateBundleGroup creates a new, empty bundle group.
func (g *BundleGraph) CreateBundleGroup(opts CreateBundleGroupOpts) *BundleGroup {
	id := g.nextGroupID
	g.nextGroupID++
	grp := &BundleGroup{
		ID:         id,
		Dependency: opts.Dependency,
		Target:     opts.Target,
		bundles:    map[BundleID]bool{},
	}
	g.groups[id] = grp
	if opts.Dependency != nil {
		g.registerGroupDependency(opts.Dependency, grp)
	}
	return grp
}

// CreateBundleOpts configures CreateBundle.
type CreateBundleOpts struct {
	EntryAsset   *assetgraph.Asset // mutually exclusive with UniqueKey
	UniqueKey    string
	Type         string
	Env          assetgraph.Env
	Target       *assetgraph.Target
	IsEntry      bool
	IsInline     bool
	IsSplittable bool
}

// CreateBundle creates a new bundle with no assets attached yet.
func (g *BundleGraph) CreateBundle(opts CreateBundleOpts) *Bundle {
	id := g.nextBundleID
	g.nextBundleID++

	b := &Bundle{
		ID:           id,
		Type:         opts.Type,
		Env:          opts.Env,
		Target:       opts.Target,
		IsEntry:      opts.IsEntry,
		IsInline:     opts.IsInline,
		IsSplittable: opts.IsSplittable,
		UniqueKey:    opts.UniqueKey,
		roots:        map[string]bool{},
		assets:       map[string]bool{},
	}
	if opts.EntryAsset != nil {
		b.mainEntry = opts.EntryAsset.ID
	}
	g.bundles[id] = b
	g.bundleGroups[id] = map[GroupID]bool{}
	return b
}

// AddBundleToBundleGroup records bundle as a member of group.
func (g *BundleGraph) AddBundleToBundleGroup(b *Bundle, grp *BundleGroup) {
	grp.bundles[b.ID] = true
	if g.bundleGroups[b.ID] == nil {
		g.bundleGroups[b.ID] = map[GroupID]bool{}
	}
	g.bundleGroups[b.ID][grp.ID] = true
}

// AddAssetGraphToBundle attaches assetID, and its reachable subgraph within
// bundle's type (see reachableWithinBundle), to bundle.
func (g *BundleGraph) AddAssetGraphToBundle(assetID string, b *Bundle) {
	b.roots[assetID] = true
	for _, id := range g.reachableWithinBundle(assetID, b.Type) {
		if b.assets[id] {
			continue
		}
		b.assets[id] = true
		if g.containingBundles[id] == nil {
			g.containingBundles[id] = map[BundleID]bool{}
		}
		g.containingBundles[id][b.ID] = true
	}
}

// RemoveAssetGraphFromBundle removes assetID and its reachable subgraph
// (within bundle's type) from bundle. assetID itself is always evicted —
// that's the whole point of the call, whether it's a deduplicated ancestor
// asset, a just-extracted shared asset, or a hoisted main entry. A
// descendant of assetID stays behind only if bundle's *other* remaining
// roots still reach it by some path that doesn't run through assetID; most
// callers pass an assetID that was never itself a root (primary.go only
// records a root at the literal split point, not at every same-type asset
// folded into the bundle), so recomputing "keep" by walking the unmodified
// root set would just rediscover the very edge being cut. Checking via
// reachableWithinBundleExcluding instead of reachableWithinBundle is what
// makes this work for that common non-root case.
func (g *BundleGraph) RemoveAssetGraphFromBundle(assetID string, b *Bundle) {
	toRemove := map[string]bool{}
	for _, id := range g.reachableWithinBundle(assetID, b.Type) {
		toRemove[id] = true
	}
	delete(b.roots, assetID)

	keep := map[string]bool{}
	for root := range b.roots {
		for id := range g.reachableWithinBundleExcluding(root, b.Type, assetID) {
			keep[id] = true
		}
	}

	for id := range toRemove {
		if id != assetID && keep[id] {
			continue
		}
		delete(b.assets, id)
		if set := g.containingBundles[id]; set != nil {
			delete(set, b.ID)
			if len(set) == 0 {
				delete(g.containingBundles, id)
			}
		}
	}
}

// CreateAssetReference records that dep, declared in one bundle, resolves
// to an asset living in a different (already created) bundle — the
// cross-bundle-boundary edge PrimaryBundler creates at a type split
// (spec §4.1).
func (g *BundleGraph) CreateAssetReference(dep *assetgraph.Dependency, target *Bundle) {
	if g.assetRefs[dep.ID] == nil {
		g.assetRefs[dep.ID] = map[BundleID]bool{}
	}
	g.assetRefs[dep.ID][target.ID] = true
}

// InternalizeAsyncDependency marks dep as resolved locally within b: the
// dynamic import no longer needs a separate bundle group load at runtime
// (spec §4.2 Step 4).
func (g *BundleGraph) InternalizeAsyncDependency(b *Bundle, dep *assetgraph.Dependency) {
	if g.internalized[b.ID] == nil {
		g.internalized[b.ID] = map[string]bool{}
	}
	g.internalized[b.ID][dep.ID] = true
}

// IsInternalized reports whether dep has been internalized within b.
func (g *BundleGraph) IsInternalized(b *Bundle, dep *assetgraph.Dependency) bool {
	return g.internalized[b.ID][dep.ID]
}

// RemoveBundleGroup deletes a bundle group and its membership links.
func (g *BundleGraph) RemoveBundleGroup(grp *BundleGroup) {
	for bid := range grp.bundles {
		if set := g.bundleGroups[bid]; set != nil {
			delete(set, grp.ID)
		}
	}
	delete(g.groups, grp.ID)
}
