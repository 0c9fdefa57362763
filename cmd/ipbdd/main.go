// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command ipbdd is the CLI collaborator around the ipset/bdd core: build a
// set from a text address list, print one back out as text, dump it as a
// GraphViz graph, or benchmark a store under synthetic load. None of this
// package's logic belongs to the core contract (spec.md §1); it is thin
// glue that turns flags and files into ipset/serialize calls.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
