// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/serialize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newDotCmd() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Dump a serialized IP set as a GraphViz graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(input, output)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "serialized set file, or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or - for stdout")
	return cmd
}

func runDot(input, output string) error {
	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	store, err := bdd.New(129)
	if err != nil {
		return errors.Wrap(err, "dot")
	}
	root, err := serialize.Read(in, store)
	if err != nil {
		return errors.Wrap(err, "dot")
	}

	out := os.Stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(err, "dot")
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintln(w, "digraph ipset {")
	fmt.Fprintln(w, "  0 [shape=box, label=\"0\"];")
	fmt.Fprintln(w, "  1 [shape=box, label=\"1\"];")
	store.Walk(root, func(n bdd.Node) {
		fmt.Fprintf(w, "  n%d [label=\"%d\"];\n", n, store.Variable(n))
		fmt.Fprintf(w, "  n%d -> %s [style=dashed];\n", n, dotChild(store.Low(n)))
		fmt.Fprintf(w, "  n%d -> %s;\n", n, dotChild(store.High(n)))
	})
	if root.IsTerminal() {
		fmt.Fprintf(w, "  root [shape=none, label=\"\"];\n  root -> %s;\n", dotChild(root))
	} else {
		fmt.Fprintf(w, "  root [shape=none, label=\"\"];\n  root -> n%d;\n", root)
	}
	fmt.Fprintln(w, "}")
	return nil
}

func dotChild(n bdd.Node) string {
	if n.IsTerminal() {
		return fmt.Sprintf("%d", n.Value())
	}
	return fmt.Sprintf("n%d", n)
}
