// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "go.uber.org/zap"

// maxVariables bounds the number of BDD variables. It is far below the
// teacher's 21-bit _MAXVAR because a node's variable is stored as a single
// byte, both in the arena and on disk (spec.md §4.5), and a practical
// IP-set engine never needs more than 129 variables (1 family bit + 128
// address bits).
const maxVariables int32 = 255

// config holds the tunable parameters of a Store, set through functional
// options passed to New. This mirrors the teacher's configs/config.go
// almost directly; Nodesize/Cachesize/Cacheratio/Maxnodesize keep their
// names and meaning.
type config struct {
	nodesize    int
	cachesize   int
	cacheratio  int
	maxnodesize int
	logger      *zap.Logger
}

func defaultConfig(varnum int) config {
	return config{
		nodesize:  2*varnum + chunkSize,
		cachesize: 10000,
		logger:    zap.NewNop(),
	}
}

// Option configures a Store at construction time.
type Option func(*config)

// Nodesize sets a preferred initial size (in nodes) for the node arena.
// The arena still grows in fixed-size chunks as needed; this only affects
// how many chunks are pre-sized.
func Nodesize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.nodesize = size
		}
	}
}

// Maxnodesize caps the total number of nonterminal nodes a Store will
// allocate. The default, zero, means no limit beyond available memory.
func Maxnodesize(size int) Option {
	return func(c *config) {
		c.maxnodesize = size
	}
}

// Cachesize sets the initial number of entries in each operator cache
// (AND, OR and ITE are sized independently but share this initial value).
func Cachesize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.cachesize = size
		}
	}
}

// Cacheratio sets a cache-to-node ratio (percent) so that caches grow
// along with the node arena; zero (the default) means caches never grow
// past their initial size.
func Cacheratio(ratio int) Option {
	return func(c *config) {
		c.cacheratio = ratio
	}
}

// WithLogger attaches a zap.Logger used to report node arena growth at
// Debug level; no other event is logged. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
