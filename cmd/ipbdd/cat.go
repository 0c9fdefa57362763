// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/dalzilio/ipbdd/serialize"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	var input, output string
	var networks, verbose bool

	cmd := &cobra.Command{
		Use:   "cat",
		Short: "Print a serialized IP set as text, one address or network per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCat(input, output, networks, verbose)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "serialized set file, or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or - for stdout")
	cmd.Flags().BoolVarP(&networks, "networks", "n", false, "summarize as CIDR networks instead of individual addresses")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report node count and address cardinality on stderr")
	return cmd
}

func runCat(input, output string, networks, verbose bool) error {
	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	store, err := bdd.New(129)
	if err != nil {
		return errors.Wrap(err, "cat")
	}
	root, err := serialize.Read(in, store)
	if err != nil {
		return errors.Wrap(err, "cat")
	}
	set := ipset.SetFromRoot(store, root)

	out := os.Stdout
	if output != "-" && output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(err, "cat")
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	var records []ipset.Record
	if networks {
		records = set.IterateNetworks()
	} else {
		records = set.Iterate()
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s/%d\n", r.Addr, r.Prefix)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "nodes: %s, addresses: %s\n",
			humanize.Comma(int64(set.MemorySize(1))),
			set.Cardinality().String(),
		)
	}
	return nil
}
