// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"io"
	"os"

	"github.com/dalzilio/ipbdd/addrtext"
	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/dalzilio/ipbdd/serialize"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func newBuildCmd() *cobra.Command {
	var input, output string
	var loose bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a serialized IP set from a text address list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(input, output, loose)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "address list file, or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for the serialized set (required)")
	cmd.Flags().BoolVarP(&loose, "loose-cidr", "l", false, "accept networks with non-zero host bits")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runBuild(input, output string, loose bool) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	store, err := bdd.New(129, bdd.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "build")
	}
	set := ipset.NewSet(store)

	var lineErrs error
	scanErr := addrtext.Scan(in, func(e addrtext.Entry) error {
		var opErr error
		if e.Remove {
			opErr = set.RemoveNetwork(e.Prefix, loose)
		} else {
			_, opErr = set.AddNetwork(e.Prefix, loose)
		}
		if opErr != nil {
			logger.Error("line rejected", zap.Int("line", e.Line), zap.Error(opErr))
			lineErrs = multierr.Append(lineErrs, opErr)
		}
		return nil
	})
	if scanErr != nil {
		lineErrs = multierr.Append(lineErrs, scanErr)
	}

	out, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "build")
	}
	defer out.Close()
	if err := serialize.Write(out, store, set.Root()); err != nil {
		return errors.Wrap(err, "build")
	}

	logger.Info("built set",
		zap.String("output", output),
		zap.String("size", humanize.Bytes(uint64(set.MemorySize(9)))),
	)
	return lineErrs
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}
