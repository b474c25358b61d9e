package assetgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldog/bundle/pkg/assetgraph"
)

func TestBuilderRoundTrip(t *testing.T) {
	g, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js", Size: 10}).
		AddAsset(assetgraph.Asset{ID: "b.js", Type: "js", Size: 20}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a#1"}, "b.js").
		AddEntry("a.js", &assetgraph.Target{Dist: "dist"}).
		Build()
	require.NoError(t, err)

	a, ok := g.Asset("a.js")
	require.True(t, ok)
	assert.Equal(t, "js", a.Type)
	assert.NotNil(t, a.Meta, "Builder must initialize a non-nil Meta so the core can always write shouldWrap")

	deps := g.DependenciesOf("a.js")
	require.Len(t, deps, 1)
	assert.Equal(t, []string{"b.js"}, deps[0].ResolvedAssetIDs())

	assert.Equal(t, []string{"a.js"}, g.Entries())
	assert.Equal(t, "dist", g.EntryTarget("a.js").Dist)
}

func TestBuilderRejectsUnknownEntry(t *testing.T) {
	_, err := assetgraph.NewBuilder().
		AddEntry("missing.js", nil).
		Build()
	assert.Error(t, err)
}

func TestBuilderRejectsDependencyToUnknownAsset(t *testing.T) {
	_, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js"}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a#1"}, "ghost.js").
		Build()
	assert.Error(t, err)
}

func TestBuilderRejectsDependencyFromUnknownSource(t *testing.T) {
	_, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "b.js", Type: "js"}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a#1"}, "b.js").
		Build()
	assert.Error(t, err)
}

func TestMetaShouldWrap(t *testing.T) {
	m := assetgraph.Meta{}
	assert.False(t, m.ShouldWrap())
	m.SetShouldWrap(true)
	assert.True(t, m.ShouldWrap())

	var nilMeta assetgraph.Meta
	assert.False(t, nilMeta.ShouldWrap(), "a nil Meta must report false rather than panic")
}
