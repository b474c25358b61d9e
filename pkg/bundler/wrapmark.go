package bundler

import "github.com/coldog/bundle/pkg/linker"

// RunWrapMarker is WrapMarker (spec §4.3): a postorder traversal over
// bundles that, within each bundle, DFS's the dependency subgraph carrying
// an inherited shouldWrap flag down from ancestors and setting it on every
// asset a wrap-carrying edge reaches.
func RunWrapMarker(g *linker.BundleGraph) {
	g.TraverseBundles(linker.BundleVisitor{
		Enter: func(b *linker.Bundle) {
			markBundle(g, b)
		},
	})
}

// markBundle walks b's own dependency subgraph (assets outside b are never
// descended into — a cross-bundle edge is an asset reference, not part of
// this bundle's wrap closure) propagating shouldWrap downward.
func markBundle(g *linker.BundleGraph, b *linker.Bundle) {
	var stack []string

	var visit func(assetID string, inherited bool)
	visit = func(assetID string, inherited bool) {
		if !b.HasAsset(assetID) {
			return
		}
		for _, s := range stack {
			if s == assetID {
				return // cyclic import; already on this path
			}
		}
		stack = append(stack, assetID)
		defer func() { stack = stack[:len(stack)-1] }()

		for _, dep := range g.AssetGraph().DependenciesOf(assetID) {
			wrap := inherited || dep.Meta.ShouldWrap()
			for _, rid := range dep.ResolvedAssetIDs() {
				if !b.HasAsset(rid) {
					continue
				}
				if wrap {
					if ra, ok := g.AssetGraph().Asset(rid); ok {
						ra.Meta.SetShouldWrap(true)
					}
				}
				visit(rid, wrap)
			}
		}
	}

	if main := b.GetMainEntry(g); main != nil {
		visit(main.ID, false)
	}
	for _, r := range b.Roots() {
		if main := b.GetMainEntry(g); main == nil || r != main.ID {
			visit(r, false)
		}
	}
}
