// Package synth provides best-first enumeration of derivation trees.
// This file defines the constraint protocol: grammar-level constraints
// that install location-bound local constraints, and the local-constraint
// contract the solver's propagation engine drives to a fixpoint.
package synth

// GrammarConstraint is a constraint defined once per grammar, stateless
// with respect to any particular tree location. The solver invokes
// OnNewNode for every node of a fresh tree and for every node that
// materializes during search; the constraint reacts by posting local
// constraints via Solver.Post.
//
// This is an open extension point: user-defined constraint kinds plug in
// by implementing this interface plus LocalConstraint.
type GrammarConstraint interface {
	// OnNewNode is called when a node appears at path. Implementations
	// typically call s.Post to install a local constraint at that path,
	// and must not mutate the tree directly.
	OnNewNode(s *Solver, path Path)
}

// LocalConstraint is a constraint bound to one path of one solver's tree.
// Local constraints are created by OnNewNode, scheduled for propagation
// whenever a mutation occurs at a path they registered interest in, and
// discarded together with the solver state that created them.
//
// Implementations must be immutable after posting: solver snapshots share
// local constraints by reference, and a snapshot may be restored and
// propagated while siblings holding the same constraint are still queued.
type LocalConstraint interface {
	// Path returns the path this constraint is anchored at.
	Path() Path

	// ShouldSchedule reports whether a mutation at the given path requires
	// this constraint to re-propagate.
	ShouldSchedule(mutated Path) bool

	// Propagate inspects the tree through the solver and narrows domains
	// via Solver.Remove / Solver.RemoveAllBut, or calls
	// Solver.SetInfeasible when the constraint cannot be satisfied.
	// Returning true deactivates the constraint: it is satisfied for every
	// remaining completion of the tree and is dropped from the store.
	Propagate(s *Solver) (done bool)
}
