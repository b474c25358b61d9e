package resolve

import (
	"strings"
	"path/filepath"
	"os"
	"fmt"
	"encoding/json"
)

var Extensions = []string{"js", "jsx", "tsx", "ts", "css"}

// Resolve implements a basic node resolution algorithm: bare specifiers are
// looked up under node_modules, relative specifiers are joined against root,
// extensions are probed in order, and directories fall back to their
// package.json "main" (defaulting to index.js). It is deliberately the only
// piece of asset resolution this module carries — the bundling core treats
// resolution as already done (spec §1) and this function exists purely to
// let assetgraph.BuildFromDir and cmd/bundledemo build real fixtures from a
// directory on disk.
func Resolve(root, name string) (string, error) {
	if !(strings.HasPrefix(name, "../") || strings.HasPrefix(name, "./") || strings.HasPrefix(name, "/")) {
		name = filepath.Join("node_modules", name)
	} else {
		name = filepath.Join(root, name)
	}

	st, err := os.Stat(name)
	if err != nil {
		for _, ext := range Extensions {
			st, err = os.Stat(name + "." + ext)
			if err == nil {
				name = name + "." + ext
				break
			}
		}
	}

	if st == nil {
		return "", fmt.Errorf("could not resolve: \"%s\"", name)
	}

	if st.IsDir() {
		_, err := os.Stat(filepath.Join(name, "package.json"))
		if err != nil && !os.IsNotExist(err) {
			return "", err
		}

		main := "index.js"
		if err == nil {
			f, err := os.Open(filepath.Join(name, "package.json"))
			if err != nil {
				return "", err
			}

			m := struct {
				Main string `json:"main"`
			}{}
			json.NewDecoder(f).Decode(&m)
			f.Close()

			if m.Main != "" {
				main = m.Main
			}
		}

		return filepath.Join(name, main), nil
	}

	return name, nil
}
