// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"math/rand"
	"net/netip"
	"time"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var count int
	var seed int64

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark a store under a synthetic insertion workload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(count, seed)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "c", 100000, "number of random /24 networks to insert")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	return cmd
}

func runBench(count int, seed int64) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	store, err := bdd.New(33, bdd.WithLogger(logger), bdd.Cachesize(65536), bdd.Cacheratio(20))
	if err != nil {
		return errors.Wrap(err, "bench")
	}
	set := ipset.NewSet(store)
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	for i := 0; i < count; i++ {
		a4 := [4]byte{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256)), 0}
		prefix := netip.PrefixFrom(netip.AddrFrom4(a4), 24)
		if _, err := set.AddNetwork(prefix, false); err != nil {
			return errors.Wrap(err, "bench")
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("inserted %s networks in %s (%.0f ops/s)\n",
		humanize.Comma(int64(count)), elapsed, float64(count)/elapsed.Seconds())
	fmt.Printf("reachable nodes: %s\n", humanize.Comma(int64(store.ReachableCount(set.Root()))))
	fmt.Println(store.Stats())
	return nil
}
