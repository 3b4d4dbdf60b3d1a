// Package synth provides best-first enumeration of derivation trees.
// This file implements hole selection: given a tree and a depth bound,
// decide whether to hand off to uniform enumeration, abandon the branch,
// or shape-branch on a specific hole.
package synth

// HoleDecision is the outcome of a hole-selection heuristic.
type HoleDecision int

const (
	// DecisionHole: branch on the returned hole.
	DecisionHole HoleDecision = iota

	// DecisionUniform: every hole's domain induces one children shape;
	// hand off to the uniform enumerator, no shape-branching remains.
	DecisionUniform

	// DecisionLimit: completing this tree would exceed the depth bound;
	// the branch is dead and yields no solutions.
	DecisionLimit
)

// String returns the decision name for diagnostics.
func (d HoleDecision) String() string {
	switch d {
	case DecisionHole:
		return "hole"
	case DecisionUniform:
		return "uniform"
	case DecisionLimit:
		return "limit-reached"
	default:
		return "unknown"
	}
}

// HoleRef identifies the hole a heuristic selected: its path and its
// current domain at selection time.
type HoleRef struct {
	Path   Path
	Domain *RuleDomain
}

// HoleHeuristic picks what to branch on next. It must be a pure function
// of the tree and the depth bound, with no other side effects; this is
// the intended customization point for traversal order.
type HoleHeuristic func(g Grammar, root *Node, maxDepth int) (HoleDecision, HoleRef)

// LeftmostHeuristic is the default policy: report limit-reached if any
// node already sits at or beyond the depth bound, otherwise pick the
// shallowest, then left-most hole whose domain is not shape-uniform,
// otherwise report the tree uniform.
func LeftmostHeuristic(g Grammar, root *Node, maxDepth int) (HoleDecision, HoleRef) {
	return selectHole(g, root, maxDepth, false)
}

// RightmostHeuristic mirrors LeftmostHeuristic, scanning each level right
// to left. Changes result ordering, not correctness or completeness.
func RightmostHeuristic(g Grammar, root *Node, maxDepth int) (HoleDecision, HoleRef) {
	return selectHole(g, root, maxDepth, true)
}

func selectHole(g Grammar, root *Node, maxDepth int, rightmost bool) (HoleDecision, HoleRef) {
	// A node at depth >= maxDepth cannot be part of any tree within the
	// bound; every completion of this branch violates it.
	limit := false
	root.Walk(func(p Path, _ *Node) bool {
		if len(p) >= maxDepth {
			limit = true
			return false
		}
		return true
	})
	if limit {
		return DecisionLimit, HoleRef{}
	}

	// Level-order scan: shallowest first, then the configured direction.
	type item struct {
		path Path
		node *Node
	}
	frontier := []item{{Path{}, root}}
	for len(frontier) > 0 {
		var next []item
		for _, it := range frontier {
			if !shapeUniform(g, it.node.Domain()) {
				return DecisionHole, HoleRef{Path: it.path, Domain: it.node.Domain()}
			}
			kids := it.node.Children()
			if rightmost {
				for i := len(kids) - 1; i >= 0; i-- {
					next = append(next, item{it.path.Append(i), kids[i]})
				}
			} else {
				for i, c := range kids {
					next = append(next, item{it.path.Append(i), c})
				}
			}
		}
		frontier = next
	}
	return DecisionUniform, HoleRef{}
}
