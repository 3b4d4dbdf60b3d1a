// Package synth provides best-first enumeration of derivation trees.
//
// This file implements the top-down iterator: the best-first driver that
// orchestrates solver snapshots, hole selection, domain partitioning and
// uniform enumeration into a pull-based lazy sequence of complete trees.
//
// # Control Flow
//
// The driver maintains a priority queue mixing not-yet-uniform solver
// snapshots and uniform enumerators, always expanding the lowest-priority
// entry:
//
//	pop best entry
//	  uniform iterator -> ask for its next filling; if it produced one,
//	    re-enqueue the iterator and yield the filling
//	  solver snapshot  -> load it, ask the hole heuristic:
//	    uniform       -> promote to a fresh uniform enumerator
//	    limit-reached -> discard (dead branch)
//	    hole          -> partition its domain into shape-uniform parts;
//	                     restrict+propagate each part from the same
//	                     pre-restriction snapshot; enqueue survivors
//
// Every popped entry is either turned into exactly one yielded tree plus
// a possible re-enqueue, or discarded permanently; discarded entries are
// never revisited.
//
// Iteration is single-threaded and entirely synchronous: no work happens
// between Next calls, and the queue plus the states it references are the
// iterator's whole continuation.
package synth

import (
	"container/heap"
	"fmt"
	"iter"
)

// PriorityFunc keys queue entries. It must be a pure function of the
// grammar, the entry's tree (or freshly yielded solution), the parent
// entry's priority and whether this is a re-enqueue of a uniform
// iterator. Smaller values are explored first; ties break by insertion
// order. Substituting a different function changes traversal order
// without altering correctness or completeness.
type PriorityFunc func(g Grammar, tree *Node, parent float64, isRequeue bool) float64

// BFSPriority is the default: entries are keyed by the size of their
// tree, which yields solutions in non-decreasing size order. A partial
// tree only grows as its branch is refined, and a shape that reached the
// uniform phase has its final size, so every enqueue carries a priority
// at least as large as the pop that produced it.
func BFSPriority(_ Grammar, tree *Node, _ float64, _ bool) float64 {
	return float64(tree.Size())
}

// DFSPriority explores fresh branches before their siblings' descendants,
// producing a depth-first traversal of the shape tree.
func DFSPriority(_ Grammar, _ *Node, parent float64, isRequeue bool) float64 {
	if isRequeue {
		return parent
	}
	return parent - 1
}

// IteratorConfig configures a TopDownIterator. Zero-value fields take
// defaults: LeftmostHeuristic, PartitionByShape, BFSPriority.
type IteratorConfig struct {
	// MaxDepth bounds tree depth: a tree with d levels satisfies the
	// bound when d <= MaxDepth. MaxDepth 0 admits no tree at all.
	MaxDepth int

	// Heuristic picks the hole to branch on. Default LeftmostHeuristic.
	Heuristic HoleHeuristic

	// Partition splits non-uniform domains. Default PartitionByShape.
	Partition PartitionFunc

	// Priority keys queue entries. Default BFSPriority.
	Priority PriorityFunc

	// Constraints are the grammar-level constraints installed at solver
	// initialization.
	Constraints []GrammarConstraint
}

// TopDownIterator enumerates complete derivation trees best-first.
// Create one with NewTopDownIterator and pull trees with Next; the
// iterator performs no work between calls. Not safe for concurrent use.
type TopDownIterator struct {
	grammar   Grammar
	heuristic HoleHeuristic
	partition PartitionFunc
	priority  PriorityFunc
	maxDepth  int

	solver    *Solver
	queue     searchQueue
	seq       uint64
	exhausted bool
}

// NewTopDownIterator builds an iterator over the given grammar from the
// given start symbol. A start symbol no rule produces is not an error:
// the iterator is simply exhausted from the first Next call.
func NewTopDownIterator(g Grammar, start Symbol, cfg IteratorConfig) (*TopDownIterator, error) {
	if g == nil {
		return nil, fmt.Errorf("synth: iterator requires a grammar")
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("synth: MaxDepth must be non-negative, got %d", cfg.MaxDepth)
	}
	if cfg.Heuristic == nil {
		cfg.Heuristic = LeftmostHeuristic
	}
	if cfg.Partition == nil {
		cfg.Partition = PartitionByShape
	}
	if cfg.Priority == nil {
		cfg.Priority = BFSPriority
	}

	it := &TopDownIterator{
		grammar:   g,
		heuristic: cfg.Heuristic,
		partition: cfg.Partition,
		priority:  cfg.Priority,
		maxDepth:  cfg.MaxDepth,
		solver:    NewSolver(g, cfg.MaxDepth, cfg.Constraints),
	}

	root := NewHole(start, DomainOf(g, start))
	it.solver.NewState(root)
	if it.solver.IsFeasible() {
		st := it.solver.SaveState()
		it.enqueueState(st, it.priority(g, st.Tree(), 0, false))
	} else {
		it.exhausted = true
	}
	return it, nil
}

// Next returns the next complete derivation tree, or (nil, false) once
// the space is exhausted. The call runs the search until a solution is
// found or the queue drains; the caller supplies any further stopping
// criterion (count, time, example satisfaction) externally.
func (it *TopDownIterator) Next() (*Node, bool) {
	for !it.exhausted && it.queue.Len() > 0 {
		entry := heap.Pop(&it.queue).(*queueEntry)
		switch entry.kind {
		case entryUniform:
			if sol := entry.uniform.NextSolution(); sol != nil {
				it.enqueueUniform(entry.uniform, it.priority(it.grammar, sol, entry.priority, true))
				return sol, true
			}
			// Exhausted iterator, drop it.

		case entrySnapshot:
			it.solver.LoadState(entry.state)
			decision, hole := it.heuristic(it.grammar, it.solver.Tree(), it.maxDepth)
			switch decision {
			case DecisionLimit:
				// Dead branch, drop it.

			case DecisionUniform:
				uniform := it.promote()
				if sol := uniform.NextSolution(); sol != nil {
					it.enqueueUniform(uniform, it.priority(it.grammar, sol, entry.priority, true))
					return sol, true
				}

			case DecisionHole:
				it.branch(hole, entry.priority)

			default:
				panic(fmt.Sprintf("synth: heuristic returned unknown decision %d", decision))
			}

		default:
			panic(fmt.Sprintf("synth: queue entry of unrecognized kind %d", entry.kind))
		}
	}
	it.exhausted = true
	return nil, false
}

// Trees returns the remaining solutions as a single-use range-over-func
// sequence. Stopping the range simply stops pulling; pending queue
// entries are dropped with it.
func (it *TopDownIterator) Trees() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for {
			tree, ok := it.Next()
			if !ok || !yield(tree) {
				return
			}
		}
	}
}

// promote builds a uniform enumerator over the solver's current tree.
// The sub-solver is created fresh: NewState regenerates local constraints
// for the subtree instead of copying possibly stale ones.
func (it *TopDownIterator) promote() *UniformIterator {
	sub := NewSolver(it.grammar, it.maxDepth, it.solver.grammarCs)
	sub.NewState(it.solver.Tree().DeepCopy())
	return NewUniformIterator(sub)
}

// branch partitions the hole's domain and enqueues one solver snapshot
// per feasible sub-domain, each branched from the same pre-restriction
// state.
func (it *TopDownIterator) branch(hole HoleRef, parent float64) {
	parts := it.partition(it.grammar, hole.Domain)
	for i, part := range parts {
		var pre *SolverState
		if i < len(parts)-1 {
			pre = it.solver.SaveState()
		}
		it.solver.RemoveAllBut(hole.Path, part)
		it.solver.Fixpoint()
		if it.solver.IsFeasible() {
			st := it.solver.SaveState()
			it.enqueueState(st, it.priority(it.grammar, st.Tree(), parent, false))
		}
		if pre != nil {
			it.solver.LoadState(pre)
		}
	}
}

func (it *TopDownIterator) enqueueState(st *SolverState, priority float64) {
	it.seq++
	heap.Push(&it.queue, &queueEntry{kind: entrySnapshot, state: st, priority: priority, seq: it.seq})
}

func (it *TopDownIterator) enqueueUniform(u *UniformIterator, priority float64) {
	it.seq++
	heap.Push(&it.queue, &queueEntry{kind: entryUniform, uniform: u, priority: priority, seq: it.seq})
}
