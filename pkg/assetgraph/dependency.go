package assetgraph

// Dependency is an edge from a source asset to one or more resolved assets.
// A dependency with more than one resolved asset models e.g. a CSS module
// whose import resolves to both a stylesheet and its source map; most
// dependencies resolve to exactly one asset.
type Dependency struct {
	ID       string
	IsEntry  bool
	IsAsync  bool
	Target   *Target
	Meta     Meta

	sourceAssetID string
	resolvedIDs   []string
}

// NewRootDependency builds a synthetic dependency with no source asset,
// resolving directly to resolvesTo. Traverse uses this to represent the
// graph's declared entries as ordinary entry dependencies, so a visitor
// never needs a special case for "the asset has no incoming edge".
func NewRootDependency(id string, target *Target, resolvesTo ...string) Dependency {
	return Dependency{ID: id, IsEntry: true, Target: target, Meta: Meta{}, resolvedIDs: resolvesTo}
}

// SourceAssetID is the asset this dependency was declared on.
func (d Dependency) SourceAssetID() string { return d.sourceAssetID }

// ResolvedAssetIDs lists the ids of every asset this dependency resolves to,
// in declaration order.
func (d Dependency) ResolvedAssetIDs() []string { return d.resolvedIDs }
