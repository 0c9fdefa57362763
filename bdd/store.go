// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"fmt"

	"go.uber.org/zap"
)

// chunkBits controls the size of each arena chunk (in nonterminal node
// slots). Chunks are allocated as whole Go slices, so the address of a node
// already allocated never moves when the arena grows: we only ever append
// a new chunk, never reallocate an existing one.
const chunkBits = 12
const chunkSize = 1 << chunkBits
const chunkMask = chunkSize - 1

// nonterminalNode is one slot of the arena. When free is true, the slot is
// on the Store's free list and only nextFree is meaningful; this is a
// tagged variant rather than a field-overload (see spec Design Notes on
// "don't care" semantics and on the free list), matching the teacher's
// habit of threading a free list through unused node slots (hudd.go) but
// without reusing a live field for two purposes.
type nonterminalNode struct {
	variable uint8
	low      Node
	high     Node
	refcount int32
	free     bool
	nextFree int32
	mark     uint32
}

type nodeKey struct {
	variable uint8
	low      Node
	high     Node
}

// lifecycle states of a Store, per spec.md §4.6.
type lifecycle int

const (
	stateEmpty lifecycle = iota
	statePopulated
	stateClosing
)

// Store owns the node arena, the content-addressed unicity table and the
// memoized operator caches for a fixed number of variables. A Store is not
// safe for concurrent use: exactly one goroutine may call its methods, or
// call methods on any Set/Map built over it, at a time (spec.md §5).
type Store struct {
	chunks    [][]nonterminalNode
	index     map[nodeKey]Node
	freeHead  int32
	freeCount int
	nextIndex int32
	markGen   uint32

	varnum int32
	state  lifecycle

	and_ *pairCache
	or_  *pairCache
	not_ *unaryCache
	ite_ *tripleCache

	produced uint64
	gcCount  int

	cfg    config
	logger *zap.Logger
}

// New returns a Store with varnum variables, numbered 0..varnum-1. Options
// configure the initial size of the node arena and operator caches; see
// Nodesize, Cachesize, Cacheratio and WithLogger.
func New(varnum int, options ...Option) (*Store, error) {
	if varnum < 1 || varnum > int(maxVariables) {
		return nil, fmt.Errorf("bdd: bad number of variables (%d)", varnum)
	}
	cfg := defaultConfig(varnum)
	for _, opt := range options {
		opt(&cfg)
	}
	s := &Store{
		varnum:   int32(varnum),
		index:    make(map[nodeKey]Node, cfg.nodesize),
		freeHead: -1,
		cfg:      cfg,
		logger:   cfg.logger,
	}
	s.chunks = make([][]nonterminalNode, 0, (cfg.nodesize>>chunkBits)+1)
	s.and_ = newPairCache(cfg.cachesize, cfg.cacheratio)
	s.or_ = newPairCache(cfg.cachesize, cfg.cacheratio)
	s.not_ = newUnaryCache(cfg.cachesize)
	s.ite_ = newTripleCache(cfg.cachesize, cfg.cacheratio)
	s.state = stateEmpty
	return s, nil
}

// Varnum returns the number of variables declared for this Store.
func (s *Store) Varnum() int32 {
	return s.varnum
}

func (s *Store) nodeAt(idx int32) *nonterminalNode {
	return &s.chunks[idx>>chunkBits][idx&chunkMask]
}

// Variable returns the decision variable of n, or Varnum() if n is a
// terminal (terminals are considered to have an "infinite" variable, so
// that they sort after every real variable when computing a minimum).
func (s *Store) Variable(n Node) int32 {
	if n.IsTerminal() {
		return s.varnum
	}
	return int32(s.nodeAt(n.index()).variable)
}

// Low returns the false-branch child of n. Calling it on a terminal Node
// returns n itself.
func (s *Store) Low(n Node) Node {
	if n.IsTerminal() {
		return n
	}
	return s.nodeAt(n.index()).low
}

// High returns the true-branch child of n. Calling it on a terminal Node
// returns n itself.
func (s *Store) High(n Node) Node {
	if n.IsTerminal() {
		return n
	}
	return s.nodeAt(n.index()).high
}

func (s *Store) refcount(n Node) int32 {
	if n.IsTerminal() {
		return -1
	}
	return s.nodeAt(n.index()).refcount
}

// Incref increases the reference count on n; it has no effect on terminal
// nodes.
func (s *Store) Incref(n Node) {
	if n.IsTerminal() {
		return
	}
	s.nodeAt(n.index()).refcount++
}

// Decref releases one reference on n. At refcount zero the node is removed
// from the unicity table, its slot is returned to the free list, and its
// children are recursively decref'd. It has no effect on terminal nodes.
func (s *Store) Decref(n Node) {
	if n.IsTerminal() {
		return
	}
	nd := s.nodeAt(n.index())
	if nd.refcount <= 0 {
		return
	}
	nd.refcount--
	if nd.refcount == 0 {
		delete(s.index, nodeKey{nd.variable, nd.low, nd.high})
		low, high := nd.low, nd.high
		s.release(n.index())
		s.Decref(low)
		s.Decref(high)
	}
}

func (s *Store) release(idx int32) {
	nd := s.nodeAt(idx)
	*nd = nonterminalNode{free: true, nextFree: s.freeHead}
	s.freeHead = idx
	s.freeCount++
}

func (s *Store) allocate() (int32, error) {
	if s.freeHead >= 0 {
		idx := s.freeHead
		nd := s.nodeAt(idx)
		s.freeHead = nd.nextFree
		s.freeCount--
		return idx, nil
	}
	idx := s.nextIndex
	chunkIdx := int(idx >> chunkBits)
	if chunkIdx >= len(s.chunks) {
		if s.cfg.maxnodesize > 0 && int(idx) >= s.cfg.maxnodesize {
			return 0, fmt.Errorf("bdd: node arena at configured maximum (%d nodes)", s.cfg.maxnodesize)
		}
		s.chunks = append(s.chunks, make([]nonterminalNode, chunkSize))
		capacity := len(s.chunks) * chunkSize
		s.and_.resize(s, capacity)
		s.or_.resize(s, capacity)
		s.ite_.resize(s, capacity)
		s.logger.Debug("grew node arena", zap.Int("chunks", len(s.chunks)), zap.Int("capacity", capacity))
	}
	s.nextIndex++
	return idx, nil
}

// Nonterminal returns the canonical node for decision variable v with the
// given low and high children, creating it if it does not already exist.
// Nonterminal consumes one reference on both low and high (transferring
// ownership to the call) and returns exactly one reference on the result.
//
// It is an error to call Nonterminal with v not strictly less than the
// variable of low or high; callers within this package maintain that
// invariant by construction (the recursive operators only ever combine
// cofactors of variable strictly greater than v).
func (s *Store) Nonterminal(v int32, low, high Node) (Node, error) {
	if low == high {
		s.Decref(high)
		return low, nil
	}
	key := nodeKey{uint8(v), low, high}
	if id, ok := s.index[key]; ok {
		s.Incref(id)
		s.Decref(low)
		s.Decref(high)
		return id, nil
	}
	idx, err := s.allocate()
	if err != nil {
		s.Decref(low)
		s.Decref(high)
		return 0, err
	}
	*s.nodeAt(idx) = nonterminalNode{variable: uint8(v), low: low, high: high, refcount: 1}
	node := Node(idx)
	s.index[key] = node
	s.produced++
	s.state = statePopulated
	return node, nil
}

// ReachableCount returns the number of distinct nonterminal nodes
// reachable from root, including root itself if it is a nonterminal.
func (s *Store) ReachableCount(root Node) int {
	count := 0
	s.Walk(root, func(Node) {
		count++
	})
	return count
}

// Walk performs a postorder depth-first traversal from root, visiting
// every reachable nonterminal node exactly once. Children are visited
// (and so passed to visit) strictly before their parent: this is the
// ordering serialize needs so that, when a node is written to the disk
// format, every id it references has already been written.
func (s *Store) Walk(root Node, visit func(Node)) {
	s.markGen++
	gen := s.markGen
	var rec func(n Node)
	rec = func(n Node) {
		if n.IsTerminal() {
			return
		}
		nd := s.nodeAt(n.index())
		if nd.mark == gen {
			return
		}
		nd.mark = gen
		rec(nd.low)
		rec(nd.high)
		visit(n)
	}
	rec(root)
}

// Close flushes the operator caches and releases the node arena. A closed
// Store must not be used again; any Set or Map built over it becomes
// invalid.
func (s *Store) Close() {
	s.state = stateClosing
	s.and_.clear(s)
	s.or_.clear(s)
	s.not_.clear(s)
	s.ite_.clear(s)
	s.chunks = nil
	s.index = nil
}

// Stats returns a short human-readable summary of the Store's node arena
// and operator caches, in the spirit of the teacher library's Stats
// method (stdio.go).
func (s *Store) Stats() string {
	capacity := len(s.chunks) * chunkSize
	used := int(s.nextIndex) - s.freeCount
	res := fmt.Sprintf("Varnum:     %d\n", s.varnum)
	res += fmt.Sprintf("Allocated:  %d\n", capacity)
	res += fmt.Sprintf("Produced:   %d\n", s.produced)
	res += fmt.Sprintf("Used:       %d\n", used)
	res += fmt.Sprintf("Free:       %d\n", s.freeCount)
	res += "==============\n"
	res += s.and_.String("AND")
	res += s.or_.String("OR")
	res += s.not_.String("NOT")
	res += s.ite_.String("ITE")
	return res
}
