// Package synth provides best-first enumeration of derivation trees.
// This file implements the uniform enumerator: once every hole of a tree
// has a shape-uniform domain, only rule choice per hole remains, and a
// systematic backtracking search over those choices enumerates every
// consistent complete filling one at a time.
package synth

// UniformIterator enumerates, without repetition, every complete filling
// of a structurally uniform tree that is consistent with the constraint
// store. It owns a private solver built fresh from the uniform subtree,
// with local constraints regenerated rather than copied, so stale state
// from the shape-branching phase cannot leak in.
//
// The search is depth-first with constraint propagation after each
// tentative assignment, implemented with an explicit frame stack so that
// NextSolution can suspend after each solution and resume later. Many
// iterators may be resident in the driver's queue simultaneously; they
// are inert until popped, and never share solver state.
type UniformIterator struct {
	solver    *Solver
	stack     []*uniformFrame
	started   bool
	exhausted bool
}

// uniformFrame is one open choice point: the state before assigning the
// hole, and the rules still to try.
type uniformFrame struct {
	saved *SolverState
	hole  Path
	rules []int
	next  int
}

// NewUniformIterator wraps a solver whose tree is structurally uniform.
// If the solver is already infeasible the iterator is born exhausted.
func NewUniformIterator(solver *Solver) *UniformIterator {
	it := &UniformIterator{solver: solver}
	if !solver.IsFeasible() {
		it.exhausted = true
	}
	return it
}

// NextSolution returns the next complete filled tree, or nil once the
// space is exhausted. Each returned tree is distinct, and every
// consistent filling is eventually returned exactly once. The returned
// tree is a copy owned by the caller.
func (it *UniformIterator) NextSolution() *Node {
	if it.exhausted {
		return nil
	}

	if !it.started {
		it.started = true
		if hole, ok := it.openHole(); ok {
			it.push(hole)
		} else {
			// No open holes: the initial state is itself the only filling.
			sol := it.solver.Tree().DeepCopy()
			it.exhausted = true
			return sol
		}
	}

	for len(it.stack) > 0 {
		frame := it.stack[len(it.stack)-1]
		if frame.next >= len(frame.rules) {
			// All rules tried at this choice point; backtrack.
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		rule := frame.rules[frame.next]
		frame.next++

		it.solver.LoadState(frame.saved.clone())
		it.solver.RemoveAllBut(frame.hole, NewRuleDomainOf(it.solver.Grammar().RuleCount(), []int{rule}))
		it.solver.Fixpoint()
		if !it.solver.IsFeasible() {
			continue
		}

		if hole, ok := it.openHole(); ok {
			it.push(hole)
			continue
		}
		return it.solver.Tree().DeepCopy()
	}

	it.exhausted = true
	return nil
}

// openHole returns the first (preorder) node whose domain still has more
// than one rule.
func (it *UniformIterator) openHole() (Path, bool) {
	var found Path
	ok := false
	it.solver.Tree().Walk(func(p Path, n *Node) bool {
		if n.Domain().Count() > 1 {
			found, ok = p, true
			return false
		}
		return true
	})
	return found, ok
}

func (it *UniformIterator) push(hole Path) {
	node := it.solver.Tree().At(hole)
	it.stack = append(it.stack, &uniformFrame{
		saved: it.solver.SaveState(),
		hole:  hole,
		rules: node.Domain().Rules(),
	})
}
