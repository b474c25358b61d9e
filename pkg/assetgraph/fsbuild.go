package assetgraph

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coldog/bundle/pkg/resolve"
)

// typeByExt maps a resolved file's extension to the asset Type the core
// groups bundles by (spec §3 "homogeneity": a bundle only ever holds
// assets of one type).
var typeByExt = map[string]string{
	".js":   "js",
	".jsx":  "js",
	".ts":   "js",
	".tsx":  "js",
	".css":  "css",
	".html": "html",
}

// importRe finds require()/import() call sites and static ESM imports. It
// plays the role the teacher's pkg/compiler/require.go character-at-a-time
// scanner played, generalized to also flag dynamic import() as async — a
// distinction the original jsbld linker never had to make, since it had no
// concept of async bundle groups.
var importRe = regexp.MustCompile(`(?:\b(require|import)\s*\(\s*['"]([^'"]+)['"]\s*\)|\bimport\s+(?:[\w*{},\s]+from\s+)?['"]([^'"]+)['"])`)

// cssImportRe finds CSS @import statements, treated as same-type static
// dependencies (style.css importing another stylesheet never opens a new
// bundle group on its own).
var cssImportRe = regexp.MustCompile(`@import\s+(?:url\()?['"]([^'"]+)['"]\)?`)

// BuildFromDir walks entries on disk, resolving each require()/import()
// call site with pkg/resolve, and returns a Graph ready for pkg/bundler.
// This is demonstration wiring, not part of the bundling core (spec §1
// Non-goals explicitly exclude asset resolution and parsing) — it exists so
// cmd/bundledemo has a real filesystem to point the core at, the same role linker_test.go's compiler.Compile call played
// in the teacher.
func BuildFromDir(root string, entries []string, env Env, target *Target) (*Graph, error) {
	b := NewBuilder()
	seen := map[string]bool{}

	var visit func(file string) error
	visit = func(file string) error {
		if seen[file] {
			return nil
		}
		seen[file] = true

		data, err := os.ReadFile(filepath.Join(root, file))
		if err != nil {
			return fmt.Errorf("assetgraph: reading %s: %w", file, err)
		}
		info, err := os.Stat(filepath.Join(root, file))
		if err != nil {
			return err
		}

		ext := strings.ToLower(filepath.Ext(file))
		assetType, ok := typeByExt[ext]
		if !ok {
			assetType = "other"
		}

		b.AddAsset(Asset{
			ID:   file,
			Type: assetType,
			Env:  env,
			Size: uint64(info.Size()),
		})

		src := string(data)
		depIdx := 0
		addDep := func(spec string, async bool) error {
			resolved, err := resolve.Resolve(filepath.Join(root, filepath.Dir(file)), spec)
			if err != nil {
				// Unresolvable specifiers (e.g. a bare external url) are
				// silently skipped, matching pkg/compiler/require.go's
				// original behavior of leaving the call site untouched.
				return nil
			}
			rel, err := filepath.Rel(root, resolved)
			if err != nil {
				return err
			}
			depIdx++
			b.AddDependency(file, Dependency{
				ID:      fmt.Sprintf("%s#%d", file, depIdx),
				IsAsync: async,
			}, rel)
			return visit(rel)
		}

		if assetType == "css" {
			for _, m := range cssImportRe.FindAllStringSubmatch(src, -1) {
				if err := addDep(m[1], false); err != nil {
					return err
				}
			}
			return nil
		}

		for _, m := range importRe.FindAllStringSubmatch(src, -1) {
			switch {
			case m[1] == "import" && m[2] != "":
				if err := addDep(m[2], true); err != nil {
					return err
				}
			case m[1] == "require" && m[2] != "":
				if err := addDep(m[2], false); err != nil {
					return err
				}
			case m[3] != "":
				if err := addDep(m[3], false); err != nil {
					return err
				}
			}
		}
		return nil
	}

	for _, e := range entries {
		if err := visit(e); err != nil {
			return nil, err
		}
		b.AddEntry(e, target)
	}

	return b.Build()
}
