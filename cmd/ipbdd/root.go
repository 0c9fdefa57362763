// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	quiet   bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ipbdd",
		Short:         "Build, inspect and benchmark BDD-backed IP sets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all but error logging")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newCatCmd())
	root.AddCommand(newDotCmd())
	root.AddCommand(newBenchCmd())
	return root
}

func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
