// Package synth provides best-first enumeration of derivation trees.
//
// This file implements the Solver: the single point of truth for one
// derivation tree plus its constraint store.
//
// # Architecture Overview
//
// The solver separates the immutable problem definition from mutable
// solving state:
//
//	Grammar + grammar constraints (immutable during a search run):
//	  - Production rules with return and child types
//	  - Constraint factories invoked once per node appearance
//	  - Shared by every branch of the search (zero copy cost)
//
//	Solver (one mutable instance):
//	  - The current derivation tree with per-hole rule domains
//	  - Active local constraints and the propagation schedule
//	  - Mutation primitives (Remove / RemoveAllBut) and Fixpoint
//
//	SolverState (snapshot):
//	  - Copied tree shape plus shared immutable domains
//	  - Shared local-constraint references
//	  - Restorable in arbitrary order; backtracking is not LIFO here,
//	    the best-first driver jumps between branches freely
//
// # How Constraint Propagation Works
//
//  1. A mutation narrows a hole's domain at some path
//  2. simplify materializes children for holes whose shape became known
//  3. Grammar constraints post local constraints at any new nodes
//  4. Local constraints interested in the touched paths are scheduled
//  5. Fixpoint drains the schedule; each propagation may mutate again,
//     rescheduling transitively, until nothing is pending
//
// Termination holds because every mutation strictly shrinks some finite
// domain; a generous iteration cap guards against a constraint that
// violates the shrink-only discipline (see Fixpoint).
package synth

import "fmt"

// Solver owns one derivation tree and its constraint store, and offers
// controlled mutation with propagation to a fixpoint after each change.
// Infeasibility is not an error: once detected, the state is permanently
// infeasible and every further mutation is a no-op.
//
// Thread safety: Solver instances are NOT thread-safe. The best-first
// driver owns exactly one mutable Solver and loads queued snapshots into
// it strictly sequentially.
type Solver struct {
	grammar   Grammar
	maxDepth  int
	grammarCs []GrammarConstraint

	root     *Node
	feasible bool

	// Active local constraints, in posting order.
	locals []LocalConstraint

	// Propagation schedule (FIFO) and its membership index.
	queue  []LocalConstraint
	queued map[LocalConstraint]bool
}

// SolverState is an opaque snapshot of a solver: tree shape, domains,
// feasibility and the active local constraints, sufficient to resume
// propagation later. Snapshots are independent of each other and of the
// live solver; domains and constraints are shared because both are
// immutable. Loading a state transfers ownership of its tree to the
// solver, so a state must not be loaded twice.
type SolverState struct {
	root     *Node
	feasible bool
	locals   []LocalConstraint
}

func (st *SolverState) clone() *SolverState {
	cp := &SolverState{feasible: st.feasible}
	if st.root != nil {
		cp.root = st.root.DeepCopy()
	}
	cp.locals = make([]LocalConstraint, len(st.locals))
	copy(cp.locals, st.locals)
	return cp
}

// Tree returns the snapshot's tree. Exposed for priority functions that
// key on tree size or depth; callers must not mutate it.
func (st *SolverState) Tree() *Node { return st.root }

// NewSolver creates a solver over the given grammar with the given depth
// bound and grammar-level constraints. The solver holds no tree until
// NewState installs one.
func NewSolver(g Grammar, maxDepth int, constraints []GrammarConstraint) *Solver {
	cs := make([]GrammarConstraint, len(constraints))
	copy(cs, constraints)
	return &Solver{
		grammar:   g,
		maxDepth:  maxDepth,
		grammarCs: cs,
		queued:    make(map[LocalConstraint]bool),
	}
}

// Grammar returns the grammar this solver enumerates over.
func (s *Solver) Grammar() Grammar { return s.grammar }

// MaxDepth returns the depth bound this solver was created with.
func (s *Solver) MaxDepth() int { return s.maxDepth }

// Tree returns the current derivation tree. Callers must not mutate it
// directly; all mutation goes through Remove / RemoveAllBut.
func (s *Solver) Tree() *Node { return s.root }

// IsFeasible reports whether the current state can still lead to a
// solution. Once false it stays false for this state.
func (s *Solver) IsFeasible() bool { return s.feasible }

// SetInfeasible marks the state permanently infeasible. All further
// mutation calls become no-ops and the propagation schedule is dropped.
func (s *Solver) SetInfeasible() {
	s.feasible = false
	s.queue = s.queue[:0]
	clear(s.queued)
}

// NewState discards any prior state, installs the given tree, simplifies
// it to a fixpoint, invokes every grammar constraint's OnNewNode hook for
// every node in DFS order, and propagates to a fixpoint.
//
// A root whose domain is empty (a start symbol no rule produces) yields
// an immediately infeasible state; that is expected, not an error.
func (s *Solver) NewState(root *Node) {
	s.root = root
	s.locals = nil
	s.queue = s.queue[:0]
	clear(s.queued)
	s.feasible = root != nil && !root.Domain().IsEmpty()
	if !s.feasible {
		return
	}

	var newPaths []Path
	s.simplifyNode(root, Path{}, &newPaths)
	if !s.feasible {
		return
	}

	root.Walk(func(p Path, _ *Node) bool {
		for _, gc := range s.grammarCs {
			gc.OnNewNode(s, p)
		}
		return true
	})
	s.Fixpoint()
}

// SaveState returns an independently restorable snapshot of the current
// state. Must be called at a propagation fixpoint; saving with scheduled
// constraints pending is a programming error.
func (s *Solver) SaveState() *SolverState {
	if len(s.queue) != 0 {
		panic("synth: SaveState with pending propagation; call Fixpoint first")
	}
	st := &SolverState{feasible: s.feasible}
	if s.root != nil {
		st.root = s.root.DeepCopy()
	}
	st.locals = make([]LocalConstraint, len(s.locals))
	copy(st.locals, s.locals)
	return st
}

// LoadState replaces the current tree, domains and constraints with the
// snapshot's. No propagation runs: the snapshot is already a fixpoint.
func (s *Solver) LoadState(st *SolverState) {
	s.root = st.root
	s.feasible = st.feasible
	s.locals = make([]LocalConstraint, len(st.locals))
	copy(s.locals, st.locals)
	s.queue = s.queue[:0]
	clear(s.queued)
}

// Post installs a local constraint and schedules it for propagation.
// Called by grammar constraints from their OnNewNode hooks.
func (s *Solver) Post(lc LocalConstraint) {
	if !s.feasible {
		return
	}
	s.locals = append(s.locals, lc)
	s.schedule(lc)
}

// RemoveAllBut restricts the hole at path to exactly keep, which must be
// a non-empty subset of the current domain (violating that is a
// programming error and fails fast). Returns without effect if keep does
// not shrink the domain. Otherwise the change is recorded, children are
// materialized where shapes became known, and interested local
// constraints are scheduled; call Fixpoint to propagate.
func (s *Solver) RemoveAllBut(path Path, keep *RuleDomain) {
	if !s.feasible {
		return
	}
	node := s.root.At(path)
	if keep.IsEmpty() || !keep.SubsetOf(node.Domain()) {
		panic(fmt.Sprintf("synth: RemoveAllBut at %s: %s is not a non-empty subset of %s",
			path, keep, node.Domain()))
	}
	if keep.Equal(node.Domain()) {
		return
	}
	node.domain = keep
	s.afterMutation(path)
}

// Remove excludes the given rules from the domain of the node at path.
// Rules not present are ignored. A domain that shrinks to empty marks
// the whole state infeasible, which short-circuits further propagation.
func (s *Solver) Remove(path Path, rules ...int) {
	if !s.feasible {
		return
	}
	node := s.root.At(path)
	nd := node.Domain().Remove(rules...)
	if nd.Equal(node.Domain()) {
		return
	}
	if nd.IsEmpty() {
		s.SetInfeasible()
		return
	}
	node.domain = nd
	s.afterMutation(path)
}

// Fixpoint drains the propagation schedule, invoking each scheduled local
// constraint once per pass, until nothing is pending or the state turned
// infeasible. Each propagation may narrow domains, which reschedules
// interested constraints (chain reaction). Terminates because mutations
// strictly shrink finite domains; a constraint that oscillates instead
// trips the iteration cap, which fails fast as a contract violation.
func (s *Solver) Fixpoint() {
	limit := s.fixpointCap()
	for iter := 0; len(s.queue) > 0; iter++ {
		if !s.feasible {
			s.queue = s.queue[:0]
			clear(s.queued)
			return
		}
		if iter >= limit {
			panic(fmt.Sprintf("synth: propagation did not reach a fixpoint after %d iterations; "+
				"a local constraint is growing domains or rescheduling without progress", limit))
		}
		lc := s.queue[0]
		s.queue = s.queue[1:]
		s.queued[lc] = false
		if !s.isActive(lc) {
			continue
		}
		if lc.Propagate(s) {
			s.dropLocal(lc)
		}
	}
}

func (s *Solver) fixpointCap() int {
	size := 1
	if s.root != nil {
		size = s.root.Size()
	}
	// Every useful propagation shrinks one of at most size*RuleCount()
	// domain bits and may reschedule every active constraint once.
	return 1000 + size*s.grammar.RuleCount()*(len(s.locals)+1)
}

// afterMutation runs structural simplification below the mutated path,
// lets grammar constraints see nodes that materialized, and schedules
// local constraints interested in any touched path.
func (s *Solver) afterMutation(path Path) {
	var newPaths []Path
	s.simplifyNode(s.root.At(path), path, &newPaths)
	if !s.feasible {
		return
	}
	for _, p := range newPaths {
		for _, gc := range s.grammarCs {
			gc.OnNewNode(s, p)
		}
	}
	s.scheduleInterested(path)
	for _, p := range newPaths {
		s.scheduleInterested(p)
	}
}

// simplifyNode materializes children for every hole in the subtree whose
// domain has narrowed to rules sharing one children shape, repeating
// until no further simplification applies. New child holes receive the
// full domain of rules producing their type; an empty child domain makes
// the state infeasible. Children are only materialized for nodes at
// depth < maxDepth, which both implements the depth bound as pruning and
// bounds recursion on left-recursive grammars. Idempotent.
func (s *Solver) simplifyNode(n *Node, path Path, newPaths *[]Path) {
	if !s.feasible {
		return
	}
	if !n.shaped && !n.domain.IsEmpty() && len(path) < s.maxDepth && shapeUniform(s.grammar, n.domain) {
		rule := 0
		n.domain.Iterate(func(r int) {
			if rule == 0 {
				rule = r
			}
		})
		types := s.grammar.ChildTypes(rule)
		children := make([]*Node, len(types))
		for i, t := range types {
			d := DomainOf(s.grammar, t)
			if d.IsEmpty() {
				s.SetInfeasible()
				return
			}
			children[i] = NewHole(t, d)
		}
		n.children = children
		n.shaped = true
		for i := range children {
			*newPaths = append(*newPaths, path.Append(i))
		}
	}
	for i, c := range n.children {
		s.simplifyNode(c, path.Append(i), newPaths)
		if !s.feasible {
			return
		}
	}
}

func (s *Solver) schedule(lc LocalConstraint) {
	if s.queued[lc] {
		return
	}
	s.queued[lc] = true
	s.queue = append(s.queue, lc)
}

func (s *Solver) scheduleInterested(path Path) {
	for _, lc := range s.locals {
		if !s.queued[lc] && lc.ShouldSchedule(path) {
			s.schedule(lc)
		}
	}
}

func (s *Solver) isActive(lc LocalConstraint) bool {
	for _, a := range s.locals {
		if a == lc {
			return true
		}
	}
	return false
}

func (s *Solver) dropLocal(lc LocalConstraint) {
	for i, a := range s.locals {
		if a == lc {
			s.locals = append(s.locals[:i], s.locals[i+1:]...)
			return
		}
	}
}
