package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldog/bundle/pkg/assetgraph"
	"github.com/coldog/bundle/pkg/linker"
)

func buildSimpleGraph(t *testing.T) *assetgraph.Graph {
	t.Helper()
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js", Size: 10}).
		AddAsset(assetgraph.Asset{ID: "b.js", Type: "js", Size: 10}).
		AddAsset(assetgraph.Asset{ID: "c.js", Type: "js", Size: 10}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a->b"}, "b.js").
		AddDependency("b.js", assetgraph.Dependency{ID: "b->c"}, "c.js").
		AddEntry("a.js", &assetgraph.Target{Dist: "dist"}).
		Build()
	require.NoError(t, err)
	return ag
}

func TestAddAndRemoveAssetGraphToBundle(t *testing.T) {
	ag := buildSimpleGraph(t)
	g := linker.New(ag)
	b := g.CreateBundle(linker.CreateBundleOpts{Type: "js", IsSplittable: true})

	g.AddAssetGraphToBundle("a.js", b)
	assert.True(t, b.HasAsset("a.js"))
	assert.True(t, b.HasAsset("b.js"))
	assert.True(t, b.HasAsset("c.js"))

	aAsset, _ := ag.Asset("a.js")
	assert.Contains(t, g.FindBundlesWithAsset(aAsset), b)

	g.RemoveAssetGraphFromBundle("a.js", b)
	assert.False(t, b.HasAsset("a.js"))
	assert.False(t, b.HasAsset("b.js"), "removing the only root must drop its whole reachable subgraph")
	assert.Empty(t, g.FindBundlesWithAsset(aAsset))
}

func TestRemoveAssetGraphFromBundleKeepsSharedDescendants(t *testing.T) {
	ag := buildSimpleGraph(t)
	g := linker.New(ag)
	b := g.CreateBundle(linker.CreateBundleOpts{Type: "js", IsSplittable: true})

	// Two independent roots both reach c.js.
	g.AddAssetGraphToBundle("a.js", b)
	g.AddAssetGraphToBundle("b.js", b)
	require.True(t, b.HasAsset("c.js"))

	g.RemoveAssetGraphFromBundle("a.js", b)
	assert.False(t, b.HasAsset("a.js"))
	assert.True(t, b.HasAsset("b.js"), "b.js is still an explicit root")
	assert.True(t, b.HasAsset("c.js"), "c.js is still reachable from the remaining root b.js")
}

func TestGetSiblingBundles(t *testing.T) {
	ag := buildSimpleGraph(t)
	g := linker.New(ag)
	grp := g.CreateBundleGroup(linker.CreateBundleGroupOpts{Target: &assetgraph.Target{}})
	b1 := g.CreateBundle(linker.CreateBundleOpts{Type: "js"})
	b2 := g.CreateBundle(linker.CreateBundleOpts{Type: "css"})
	g.AddBundleToBundleGroup(b1, grp)
	g.AddBundleToBundleGroup(b2, grp)

	siblings := g.GetSiblingBundles(b1)
	require.Len(t, siblings, 1)
	assert.Equal(t, b2.ID, siblings[0].ID)
	assert.Empty(t, g.GetSiblingBundles(g.CreateBundle(linker.CreateBundleOpts{Type: "js"})))
}

func TestIsAssetInAncestorBundles(t *testing.T) {
	// a.js statically contains nothing; d.js is reached only via an async
	// dependency, so it opens its own group instead of being pulled into
	// a.js's bundle.
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js", Size: 10}).
		AddAsset(assetgraph.Asset{ID: "d.js", Type: "js", Size: 10}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a->d", IsAsync: true}, "d.js").
		AddEntry("a.js", &assetgraph.Target{Dist: "dist"}).
		Build()
	require.NoError(t, err)
	openingDep, _ := ag.Dependency("a->d")

	g := linker.New(ag)
	parent := g.CreateBundle(linker.CreateBundleOpts{Type: "js"})
	g.AddAssetGraphToBundle("a.js", parent)

	childGroup := g.CreateBundleGroup(linker.CreateBundleGroupOpts{Dependency: openingDep, Target: &assetgraph.Target{}})
	g.AddBundleToBundleGroup(parent, childGroup) // membership only; parent is childGroup's parent because it contains a.js, where openingDep is declared
	child := g.CreateBundle(linker.CreateBundleOpts{Type: "js"})
	g.AddBundleToBundleGroup(child, childGroup)

	aAsset, _ := ag.Asset("a.js")
	assert.True(t, g.IsAssetInAncestorBundles(child, aAsset))

	dAsset, _ := ag.Asset("d.js")
	assert.False(t, g.IsAssetInAncestorBundles(child, dAsset))
}

func TestRemoveBundleGroupClearsMembership(t *testing.T) {
	ag := buildSimpleGraph(t)
	g := linker.New(ag)
	grp := g.CreateBundleGroup(linker.CreateBundleGroupOpts{Target: &assetgraph.Target{}})
	b := g.CreateBundle(linker.CreateBundleOpts{Type: "js"})
	g.AddBundleToBundleGroup(b, grp)

	g.RemoveBundleGroup(grp)
	assert.Empty(t, g.GetBundleGroupsContainingBundle(b))
}
