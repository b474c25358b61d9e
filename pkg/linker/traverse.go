package linker

import "github.com/coldog/bundle/pkg/assetgraph"

// Action lets a visitor steer a traversal: keep descending, skip the
// current node's children, or stop the whole walk (spec §9's
// "heterogeneous visitor callbacks... plus a mutable control object the
// callee sets to request skip/stop" — here it's a plain return value
// instead of a shared mutable field, since Go lets enter callbacks return
// directly).
type Action int

const (
	Continue Action = iota
	SkipChildren
	Stop
)

// Context is the state PrimaryBundler threads down the DFS stack: which
// bundle group and dependency opened the branch currently being walked,
// and which bundle already exists for which asset type within it
// (spec §4.1).
type Context struct {
	BundleGroup           *BundleGroup
	BundleByType          map[string]*Bundle
	BundleGroupDependency *assetgraph.Dependency
	ParentAssetID         string
}

// Clone returns a shallow copy with its own BundleByType map, so a branch
// can add to it without mutating a sibling branch's view.
func (c Context) Clone() Context {
	cp := c
	cp.BundleByType = make(map[string]*Bundle, len(c.BundleByType))
	for k, v := range c.BundleByType {
		cp.BundleByType[k] = v
	}
	return cp
}

// Visitor receives enter/exit callbacks for every asset and dependency
// node visited by Traverse.
type Visitor struct {
	EnterAsset      func(asset *assetgraph.Asset, ctx Context) (Context, Action)
	ExitAsset       func(asset *assetgraph.Asset, ctx Context)
	EnterDependency func(dep *assetgraph.Dependency, ctx Context) (Context, Action)
	ExitDependency  func(dep *assetgraph.Dependency, ctx Context)
}

// Traverse walks every asset and dependency reachable from the asset
// graph's declared entries, in declaration order (spec §5 determinism). An
// asset's own dependencies are only descended into the first time that
// asset is entered — matching the rationale in spec §4.1 that "DFS visits
// each asset only once" even though a shared asset may be *entered*
// (and its enter/exit hooks fired) multiple times via different parents.
func (g *BundleGraph) Traverse(visitor Visitor) {
	visitedAssets := map[string]bool{}

	var visitAsset func(assetID string, ctx Context) Action
	var visitDependency func(dep *assetgraph.Dependency, ctx Context) Action

	visitAsset = func(assetID string, ctx Context) Action {
		asset, ok := g.assetGraph.Asset(assetID)
		if !ok {
			return Continue
		}
		newCtx, action := ctx, Continue
		if visitor.EnterAsset != nil {
			newCtx, action = visitor.EnterAsset(asset, ctx)
		}
		if visitor.ExitAsset != nil {
			defer visitor.ExitAsset(asset, newCtx)
		}
		if action == Stop {
			return Stop
		}
		if action == SkipChildren {
			return Continue
		}
		if visitedAssets[assetID] {
			return Continue
		}
		visitedAssets[assetID] = true

		for _, dep := range g.assetGraph.DependenciesOf(assetID) {
			if visitDependency(dep, newCtx) == Stop {
				return Stop
			}
		}
		return Continue
	}

	visitDependency = func(dep *assetgraph.Dependency, ctx Context) Action {
		newCtx, action := ctx, Continue
		if visitor.EnterDependency != nil {
			newCtx, action = visitor.EnterDependency(dep, ctx)
		}
		if visitor.ExitDependency != nil {
			defer visitor.ExitDependency(dep, newCtx)
		}
		if action == Stop {
			return Stop
		}
		if action == SkipChildren {
			return Continue
		}
		for _, assetID := range dep.ResolvedAssetIDs() {
			if visitAsset(assetID, newCtx) == Stop {
				return Stop
			}
		}
		return Continue
	}

	for _, entryID := range g.assetGraph.Entries() {
		entryDep := assetgraph.NewRootDependency("entry:"+entryID, g.assetGraph.EntryTarget(entryID), entryID)
		if visitDependency(&entryDep, Context{BundleByType: map[string]*Bundle{}}) == Stop {
			return
		}
	}
}

// BundleVisitor receives enter/exit callbacks during TraverseBundles.
type BundleVisitor struct {
	Enter func(b *Bundle)
	Exit  func(b *Bundle)
}

// TraverseBundles visits every bundle in postorder: a bundle's children —
// the bundles belonging to groups it opened via an entry/async dependency —
// are visited before the bundle itself. This is the order OptimizingBundler
// Step 2 and WrapMarker need, since both only make correct decisions about
// a bundle once its descendants have already been settled.
func (g *BundleGraph) TraverseBundles(visitor BundleVisitor) {
	childGroups := map[BundleID][]GroupID{}
	for id := GroupID(0); id < g.nextGroupID; id++ {
		grp, ok := g.groups[id]
		if !ok {
			continue
		}
		for _, parent := range g.GetParentBundlesOfBundleGroup(grp) {
			childGroups[parent.ID] = append(childGroups[parent.ID], id)
		}
	}

	visited := map[BundleID]bool{}
	var visit func(id BundleID)
	visit = func(id BundleID) {
		if visited[id] {
			return
		}
		visited[id] = true
		b, ok := g.bundles[id]
		if !ok {
			return
		}
		for _, gid := range childGroups[id] {
			grp := g.groups[gid]
			if grp == nil {
				continue
			}
			for cid := BundleID(0); cid < g.nextBundleID; cid++ {
				if grp.bundles[cid] {
					visit(cid)
				}
			}
		}
		if visitor.Enter != nil {
			visitor.Enter(b)
		}
		if visitor.Exit != nil {
			visitor.Exit(b)
		}
	}

	for id := BundleID(0); id < g.nextBundleID; id++ {
		if _, ok := g.bundles[id]; ok {
			visit(id)
		}
	}
}

// ContentVisitor receives an enter callback for TraverseContents, which may
// return SkipChildren to prune a subtree or Stop to end the walk early.
type ContentVisitor struct {
	Enter func(asset *assetgraph.Asset) Action
}

// TraverseContents walks every asset reachable from the graph's entries,
// in declaration order, visiting each asset once. This is the traversal
// OptimizingBundler Step 3 uses to find shared-bundle candidates, pruning
// a subtree as soon as its root has been keyed into a candidate.
func (g *BundleGraph) TraverseContents(visitor ContentVisitor) {
	visited := map[string]bool{}

	var visit func(id string) Action
	visit = func(id string) Action {
		if visited[id] {
			return Continue
		}
		visited[id] = true
		asset, ok := g.assetGraph.Asset(id)
		if !ok {
			return Continue
		}
		action := Continue
		if visitor.Enter != nil {
			action = visitor.Enter(asset)
		}
		if action == Stop {
			return Stop
		}
		if action == SkipChildren {
			return Continue
		}
		for _, dep := range g.assetGraph.DependenciesOf(id) {
			for _, rid := range dep.ResolvedAssetIDs() {
				if visit(rid) == Stop {
					return Stop
				}
			}
		}
		return Continue
	}

	for _, e := range g.assetGraph.Entries() {
		if visit(e) == Stop {
			return
		}
	}
}
