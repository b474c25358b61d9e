// Package main is the entry point for bundledemo, a thin CLI that runs the
// bundling core over a directory of source files and prints the resulting
// bundle graph. It exists to exercise pkg/assetgraph's filesystem wiring
// and pkg/bundler's pipeline end to end; the core itself has no CLI of its
// own (spec §1 Non-goals).
package main

import (
	"fmt"
	"os"

	"github.com/coldog/bundle/internal/bundlelog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		bundlelog.Error("bundledemo failed", "err", err)
		os.Exit(1)
	}
}
