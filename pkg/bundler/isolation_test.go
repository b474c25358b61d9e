package bundler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldog/bundle/pkg/assetgraph"
	"github.com/coldog/bundle/pkg/bundler"
	"github.com/coldog/bundle/pkg/linker"
)

// An isolated asset reached through a plain (non-entry, non-async)
// dependency still opens its own bundle group (spec §4.1's group-opening
// trigger), exactly as an async import would.
func TestIsolatedAssetOpensOwnBundleGroup(t *testing.T) {
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js", Size: 100}).
		AddAsset(assetgraph.Asset{ID: "worker.js", Type: "js", Size: 100, IsIsolated: true}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a#worker"}, "worker.js").
		AddEntry("a.js", testTarget).
		Build()
	require.NoError(t, err)

	g := linker.New(ag)
	require.NoError(t, bundler.RunPrimary(g))

	require.Len(t, g.BundleGroups(), 2, "the isolated asset should have opened a group of its own")

	aBundle := bundleFor(g, "a.js")[0]
	assert.False(t, aBundle.HasAsset("worker.js"), "an isolated asset never joins the bundle that reached it")

	workerBundle := bundleFor(g, "worker.js")[0]
	assert.NotEqual(t, aBundle.ID, workerBundle.ID)
}

// spec §4.1 step 1: isEntry = dependency.isEntry && !asset.isIsolated. An
// asset-isolated entry is demoted to a non-entry bundle, which in turn makes
// it a legal hoist/extraction candidate elsewhere.
func TestIsolatedAssetEntryIsNotMarkedEntryBundle(t *testing.T) {
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "worker-entry.js", Type: "js", Size: 100, IsIsolated: true}).
		AddEntry("worker-entry.js", testTarget).
		Build()
	require.NoError(t, err)

	g := linker.New(ag)
	require.NoError(t, bundler.RunPrimary(g))

	b := bundleFor(g, "worker-entry.js")[0]
	assert.False(t, b.IsEntry, "an isolated entry asset's bundle must not be flagged IsEntry")
}

// The isEntry formula only checks asset.isIsolated, not env.isIsolated — an
// isolated-environment entry (e.g. a worker build's own entry point) keeps
// IsEntry true and stays off the hoist/extraction candidate list (invariant
// 6) for that reason alone, not because of its environment.
func TestEnvIsolatedEntryStaysEntryBundle(t *testing.T) {
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "worker-entry.js", Type: "js", Size: 100, Env: assetgraph.Env{Isolated: true}}).
		AddEntry("worker-entry.js", testTarget).
		Build()
	require.NoError(t, err)

	g := linker.New(ag)
	require.NoError(t, bundler.RunPrimary(g))

	b := bundleFor(g, "worker-entry.js")[0]
	assert.True(t, b.IsEntry, "env isolation alone must not demote an entry bundle")
}

// spec §4.2 step 2: ancestor deduplication is skipped entirely for a bundle
// whose environment is isolated, even though a bundle in a normal
// environment (opened by an async import from the same parent)
// deduplicates the exact same ancestor-shared asset. The
// non-isolated worker's shared.js isn't a root of its own bundle — it only
// got there via worker-plain.js's own static dependency — so this also
// exercises RemoveAssetGraphFromBundle's non-root removal path.
func TestAncestorDedupSkipsIsolatedEnvironmentBundle(t *testing.T) {
	ag, err := assetgraph.NewBuilder().
		AddAsset(assetgraph.Asset{ID: "a.js", Type: "js", Size: 100}).
		AddAsset(assetgraph.Asset{ID: "shared.js", Type: "js", Size: 200}).
		AddAsset(assetgraph.Asset{ID: "worker-isolated.js", Type: "js", Size: 100, Env: assetgraph.Env{Isolated: true}}).
		AddAsset(assetgraph.Asset{ID: "worker-plain.js", Type: "js", Size: 100}).
		AddDependency("a.js", assetgraph.Dependency{ID: "a#shared"}, "shared.js").
		AddDependency("a.js", assetgraph.Dependency{ID: "a#worker-isolated"}, "worker-isolated.js").
		AddDependency("a.js", assetgraph.Dependency{ID: "a#worker-plain", IsAsync: true}, "worker-plain.js").
		AddDependency("worker-isolated.js", assetgraph.Dependency{ID: "wi#shared"}, "shared.js").
		AddDependency("worker-plain.js", assetgraph.Dependency{ID: "wp#shared"}, "shared.js").
		AddEntry("a.js", testTarget).
		Build()
	require.NoError(t, err)

	g := run(t, ag)

	aBundle := bundleFor(g, "a.js")[0]
	require.True(t, aBundle.HasAsset("shared.js"))

	isolated := bundleFor(g, "worker-isolated.js")[0]
	plain := bundleFor(g, "worker-plain.js")[0]

	assert.True(t, isolated.HasAsset("shared.js"), "an isolated environment bundle must keep its own copy, dedup skipped entirely")
	assert.False(t, plain.HasAsset("shared.js"), "a non-isolated bundle dedupes an asset already present in an ancestor")
}
