package bundler

import (
	"github.com/coldog/bundle/internal/bundlelog"
	"github.com/coldog/bundle/pkg/assetgraph"
	"github.com/coldog/bundle/pkg/linker"
)

// siblingList is the per-asset memo described in spec §4.1's rationale:
// the type-switch bundles created while descending through that asset.
// Each asset has its own list; a type-switch bundle is recorded on the list
// of the asset whose dependency created it and on the list of every
// same-type asset above it on the chain it was first reached through, so
// revisiting any asset of that chain from a different bundle group picks
// up the bundles of its subtree, without re-descending into a subtree DFS
// has already fully visited once. Bundles created under a parent's other
// dependencies are not on a child's list.
type siblingList struct {
	bundles []*linker.Bundle
}

// RunPrimary is PrimaryBundler (spec §4.1): a preorder DFS over the asset
// graph that opens bundle groups and bundles at split points — entries,
// async imports, isolated or inline assets, and type boundaries — and
// attaches assets to their owning bundles.
func RunPrimary(g *linker.BundleGraph) error {
	siblings := map[string]*siblingList{}
	chainParent := map[string]string{} // same-type parent an asset was first reached through
	rootsByBundle := map[linker.BundleID][]string{}
	var firstErr error

	recordRoot := func(b *linker.Bundle, assetID string) {
		rootsByBundle[b.ID] = append(rootsByBundle[b.ID], assetID)
	}

	opensNewGroup := func(dep *assetgraph.Dependency, resolved []*assetgraph.Asset) bool {
		if dep.IsEntry || dep.IsAsync {
			return true
		}
		for _, a := range resolved {
			if a.IsIsolated || a.Env.IsIsolated() || a.IsInline {
				return true
			}
		}
		return false
	}

	visitor := linker.Visitor{
		EnterAsset: func(asset *assetgraph.Asset, ctx linker.Context) (linker.Context, linker.Action) {
			ctx.ParentAssetID = asset.ID
			return ctx, linker.Continue
		},
		EnterDependency: func(dep *assetgraph.Dependency, ctx linker.Context) (linker.Context, linker.Action) {
			resolved := g.GetDependencyAssets(dep)

			if opensNewGroup(dep, resolved) {
				if len(resolved) == 0 {
					return ctx, linker.Continue // soft: nothing resolved, nothing to open
				}

				target := dep.Target
				if target == nil && ctx.BundleGroup != nil {
					target = ctx.BundleGroup.Target
				}
				if target == nil {
					bundlelog.Warn("primary: missing target opening bundle group", "dep", dep.ID)
					firstErr = wrapErr(ErrMissingTarget, dep.ID)
					return ctx, linker.Stop
				}

				grp := g.CreateBundleGroup(linker.CreateBundleGroupOpts{Dependency: dep, Target: target})
				bundleByType := map[string]*linker.Bundle{}

				for _, a := range resolved {
					isEntry := dep.IsEntry && !a.IsIsolated
					b := g.CreateBundle(linker.CreateBundleOpts{
						EntryAsset:   a,
						Type:         a.Type,
						Env:          a.Env,
						Target:       target,
						IsEntry:      isEntry,
						IsInline:     a.IsInline,
						IsSplittable: !a.IsInline,
					})
					g.AddBundleToBundleGroup(b, grp)
					bundleByType[a.Type] = b
					recordRoot(b, a.ID)
					siblings[a.ID] = &siblingList{}
					bundlelog.Debug("primary: opened bundle group", "dep", dep.ID, "asset", a.ID, "type", a.Type, "entry", isEntry)
				}

				newCtx := linker.Context{
					BundleGroup:           grp,
					BundleByType:          bundleByType,
					BundleGroupDependency: dep,
					ParentAssetID:         ctx.ParentAssetID,
				}
				return newCtx, linker.Continue
			}

			if ctx.BundleGroup == nil {
				firstErr = wrapErr(ErrMissingContext, dep.ID)
				return ctx, linker.Stop
			}

			sourceAsset, ok := g.AssetGraph().Asset(dep.SourceAssetID())
			if !ok {
				return ctx, linker.Continue
			}

			allSameType := true
			for _, a := range resolved {
				if a.Type != sourceAsset.Type {
					allSameType = false
					break
				}
			}

			newCtx := ctx.Clone()
			for _, a := range resolved {
				if a.Type == sourceAsset.Type {
					if lst, ok := siblings[a.ID]; ok && allSameType {
						for _, b := range lst.bundles {
							g.AddBundleToBundleGroup(b, ctx.BundleGroup)
						}
						continue
					}
					if siblings[a.ID] == nil {
						if allSameType && siblings[ctx.ParentAssetID] != nil {
							chainParent[a.ID] = ctx.ParentAssetID
						}
						siblings[a.ID] = &siblingList{}
					}
					continue
				}

				if b, ok := newCtx.BundleByType[a.Type]; ok {
					recordRoot(b, a.ID)
					g.CreateAssetReference(dep, b)
					continue
				}

				nb := g.CreateBundle(linker.CreateBundleOpts{
					EntryAsset:   a,
					Type:         a.Type,
					Env:          a.Env,
					Target:       ctx.BundleGroup.Target,
					IsEntry:      false,
					IsInline:     a.IsInline,
					IsSplittable: !a.IsInline,
				})
				g.AddBundleToBundleGroup(nb, ctx.BundleGroup)
				newCtx.BundleByType[a.Type] = nb
				recordRoot(nb, a.ID)
				for id := ctx.ParentAssetID; id != ""; id = chainParent[id] {
					if lst := siblings[id]; lst != nil {
						lst.bundles = append(lst.bundles, nb)
					}
				}
				g.CreateAssetReference(dep, nb)
				bundlelog.Debug("primary: type split", "dep", dep.ID, "asset", a.ID, "type", a.Type)
			}
			return newCtx, linker.Continue
		},
	}

	g.Traverse(visitor)

	for _, b := range g.Bundles() {
		for _, rootID := range rootsByBundle[b.ID] {
			g.AddAssetGraphToBundle(rootID, b)
		}
	}

	return firstErr
}
