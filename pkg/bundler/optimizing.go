package bundler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/coldog/bundle/internal/bundlelog"
	"github.com/coldog/bundle/pkg/assetgraph"
	"github.com/coldog/bundle/pkg/linker"
)

// RunOptimizing is OptimizingBundler (spec §4.2): five sequential rewrite
// steps over an already-primary-bundled graph. Each step materializes its
// candidate set up front before mutating the graph, per spec §5's
// traversal-safety discipline. The core never fails partially — a
// precondition violated for one candidate just means that candidate is
// skipped, not aborted.
func RunOptimizing(g *linker.BundleGraph, cfg Config) error {
	hoistSingleOriginBundles(g, cfg)
	deduplicateAncestors(g)
	extractSharedBundles(g, cfg)
	return internalizeAsyncDependencies(g)
}

// Step 1 — hoist single-origin bundles: if a splittable bundle's main entry
// is duplicated into another bundle, prefer loading the bundle (and its
// siblings) alongside that other bundle's groups instead of paying for the
// duplicate, provided the request budget allows it.
func hoistSingleOriginBundles(g *linker.BundleGraph, cfg Config) {
	for _, b := range g.Bundles() {
		if !b.IsSplittable || b.IsInline {
			continue
		}
		mainEntry := b.GetMainEntry(g)
		if mainEntry == nil {
			continue
		}

		var candidates []*linker.Bundle
		for _, c := range g.FindBundlesWithAsset(mainEntry) {
			if c.ID == b.ID || c.IsEntry || c.IsInline || !c.IsSplittable {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) == 0 {
			continue
		}

		var siblings []*linker.Bundle
		for _, s := range g.GetSiblingBundles(b) {
			if s.IsSplittable && !s.IsInline {
				siblings = append(siblings, s)
			}
		}

		for _, c := range candidates {
			groups := g.GetBundleGroupsContainingBundle(c)
			underBudget := true
			for _, grp := range groups {
				if len(g.GetBundlesInBundleGroup(grp)) >= cfg.MaxParallelRequests {
					underBudget = false
					break
				}
			}
			if !underBudget {
				continue
			}

			g.RemoveAssetGraphFromBundle(mainEntry.ID, c)
			for _, grp := range groups {
				g.AddBundleToBundleGroup(b, grp)
				for _, s := range siblings {
					g.AddBundleToBundleGroup(s, grp)
				}
			}
			bundlelog.Debug("optimizing: hoisted bundle", "bundle", b.ID, "into", c.ID, "asset", mainEntry.ID)
		}
	}
}

// Step 2 — ancestor deduplication, run postorder so a bundle's descendants
// are already settled by the time it's considered.
func deduplicateAncestors(g *linker.BundleGraph) {
	g.TraverseBundles(linker.BundleVisitor{
		Enter: func(b *linker.Bundle) {
			ancestorDedup(g, b)
		},
	})
}

// ancestorDedup removes, from b, every asset reachable within b that is
// also present in one of b's ancestor bundles. Shared by Step 2 and Step 3
// (a freshly extracted shared bundle gets the same treatment).
func ancestorDedup(g *linker.BundleGraph, b *linker.Bundle) {
	if !b.IsSplittable || b.Env.IsIsolated() {
		return
	}
	seen := map[string]bool{}
	var toRemove []string
	for _, assetID := range b.Assets() {
		for _, dep := range g.AssetGraph().DependenciesOf(assetID) {
			for _, rid := range dep.ResolvedAssetIDs() {
				if seen[rid] || !b.HasAsset(rid) {
					continue
				}
				ra, ok := g.AssetGraph().Asset(rid)
				if !ok {
					continue
				}
				if g.IsAssetInAncestorBundles(b, ra) {
					seen[rid] = true
					toRemove = append(toRemove, rid)
				}
			}
		}
	}
	for _, id := range toRemove {
		g.RemoveAssetGraphFromBundle(id, b)
	}
}

// sharedCandidate accumulates one shared-bundle-extraction candidate keyed
// by its sorted source-bundle id set.
type sharedCandidate struct {
	key     string
	assets  []string
	bundles []linker.BundleID
	size    uint64
}

// Step 3 — shared-bundle extraction: find assets duplicated across enough
// splittable bundles (entry bundles included as sources) to be worth
// pulling into a bundle of their own, largest candidate first.
func extractSharedBundles(g *linker.BundleGraph, cfg Config) {
	candidates := map[string]*sharedCandidate{}
	var order []string

	g.TraverseContents(linker.ContentVisitor{
		Enter: func(asset *assetgraph.Asset) linker.Action {
			// Entry bundles are never chosen as the shared bundle itself
			// (invariant 6), but one still counts as a source containing a
			// duplicated asset it didn't open as its own main entry.
			var containing []*linker.Bundle
			for _, b := range g.FindBundlesWithAsset(asset) {
				if !b.IsSplittable {
					continue
				}
				if me := b.GetMainEntry(g); me != nil && me.ID == asset.ID {
					continue
				}
				containing = append(containing, b)
			}
			if len(containing) <= cfg.MinBundles {
				return linker.Continue
			}

			ids := make([]string, 0, len(containing))
			bundleIDs := make([]linker.BundleID, 0, len(containing))
			for _, b := range containing {
				bundleIDs = append(bundleIDs, b.ID)
			}
			sort.Slice(bundleIDs, func(i, j int) bool { return bundleIDs[i] < bundleIDs[j] })
			for _, id := range bundleIDs {
				ids = append(ids, strconv.Itoa(int(id)))
			}
			key := strings.Join(ids, ",")

			c, ok := candidates[key]
			if !ok {
				c = &sharedCandidate{key: key, bundles: bundleIDs}
				candidates[key] = c
				order = append(order, key)
			}
			c.assets = append(c.assets, asset.ID)
			c.size += g.GetTotalSize(asset)
			return linker.SkipChildren
		},
	})

	var filtered []*sharedCandidate
	for _, key := range order {
		c := candidates[key]
		if c.size >= cfg.MinBundleSize {
			filtered = append(filtered, c)
		} else {
			bundlelog.Debug("optimizing: shared candidate below minBundleSize", "key", key, "size", c.size)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].size != filtered[j].size {
			return filtered[i].size > filtered[j].size
		}
		return filtered[i].key < filtered[j].key
	})

	for _, c := range filtered {
		groupSet := map[linker.GroupID]*linker.BundleGroup{}
		var groupOrder []linker.GroupID
		var sourceBundles []*linker.Bundle
		for _, bid := range c.bundles {
			b := g.Bundle(bid)
			if b == nil {
				continue
			}
			sourceBundles = append(sourceBundles, b)
			for _, grp := range g.GetBundleGroupsContainingBundle(b) {
				if _, ok := groupSet[grp.ID]; !ok {
					groupSet[grp.ID] = grp
					groupOrder = append(groupOrder, grp.ID)
				}
			}
		}
		if len(sourceBundles) == 0 {
			continue
		}

		budgetOK := true
		for _, gid := range groupOrder {
			if len(g.GetBundlesInBundleGroup(groupSet[gid])) >= cfg.MaxParallelRequests {
				budgetOK = false
				break
			}
		}
		if !budgetOK {
			bundlelog.Debug("optimizing: skipped shared candidate over budget", "key", c.key)
			continue
		}

		first := sourceBundles[0]
		shared := g.CreateBundle(linker.CreateBundleOpts{
			UniqueKey:    sharedUniqueKey(c.bundles),
			Type:         first.Type,
			Env:          first.Env,
			Target:       first.Target,
			IsSplittable: true,
		})

		for _, assetID := range c.assets {
			for _, src := range sourceBundles {
				g.RemoveAssetGraphFromBundle(assetID, src)
			}
			g.AddAssetGraphToBundle(assetID, shared)
		}
		for _, gid := range groupOrder {
			g.AddBundleToBundleGroup(shared, groupSet[gid])
		}
		ancestorDedup(g, shared)
		bundlelog.Debug("optimizing: extracted shared bundle", "key", c.key, "assets", len(c.assets), "size", c.size)
	}
}

// sharedUniqueKey hashes the sorted source-bundle id list with xxhash, a
// fast non-cryptographic 64-bit hash — stable across runs, which is all
// uniqueKey needs (spec §6, §9 leaves the collision behavior of a weaker
// hash an open question; this module just picks a better one).
func sharedUniqueKey(ids []linker.BundleID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	sum := xxhash.Sum64String(strings.Join(parts, "|"))
	return strconv.FormatUint(sum, 16)
}

// Step 4 — async internalization, then Step 5 — orphan cleanup of whatever
// bundle groups Step 4 touched.
func internalizeAsyncDependencies(g *linker.BundleGraph) error {
	touched := map[linker.GroupID]*linker.BundleGroup{}
	var order []linker.GroupID
	var firstErr error

	g.TraverseContents(linker.ContentVisitor{
		Enter: func(asset *assetgraph.Asset) linker.Action {
			for _, dep := range g.AssetGraph().DependenciesOf(asset.ID) {
				if !dep.IsAsync || dep.IsEntry {
					continue
				}
				resolved := g.GetDependencyResolution(dep, nil)
				if resolved == nil {
					continue
				}
				ext := g.ResolveExternalDependency(dep)
				if ext.Kind != linker.ResolvesToBundleGroup || ext.Group == nil {
					firstErr = wrapErr(ErrExternalResolutionMismatch, dep.ID)
					return linker.Stop
				}
				for _, b := range g.FindBundlesWithDependency(dep) {
					if b.HasAsset(resolved.ID) || g.IsAssetInAncestorBundles(b, resolved) {
						g.InternalizeAsyncDependency(b, dep)
						if _, ok := touched[ext.Group.ID]; !ok {
							touched[ext.Group.ID] = ext.Group
							order = append(order, ext.Group.ID)
						}
						bundlelog.Debug("optimizing: internalized async dependency", "dep", dep.ID, "bundle", b.ID)
					}
				}
			}
			return linker.Continue
		},
	})
	if firstErr != nil {
		return firstErr
	}

	for _, gid := range order {
		grp := touched[gid]
		if len(g.GetParentBundlesOfBundleGroup(grp)) == 0 {
			g.RemoveBundleGroup(grp)
			bundlelog.Debug("optimizing: removed orphaned bundle group", "group", grp.ID)
		}
	}
	return nil
}
