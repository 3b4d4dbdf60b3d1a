// Package synth provides best-first enumeration of derivation trees.
// This file implements the Forbidden constraint: no node of a solution
// tree may be the root of a subtree matching a given rule pattern.
package synth

import "fmt"

// AnyRule is the wildcard rule index in a Pattern. A pattern node carrying
// AnyRule matches any subtree.
const AnyRule = 0

// Pattern is a tree of rule indices used by Forbidden. A pattern node
// matches a tree node when the tree node is (or becomes) filled with the
// pattern's rule and every pattern child matches the corresponding tree
// child. A pattern node with no children constrains only the rule choice
// at its position, not the subtree below it.
type Pattern struct {
	Rule     int
	Children []*Pattern
}

// Pat is a convenience constructor for pattern literals.
func Pat(rule int, children ...*Pattern) *Pattern {
	return &Pattern{Rule: rule, Children: children}
}

// String renders the pattern like a tree, with "_" for wildcards.
func (p *Pattern) String() string {
	head := "_"
	if p.Rule != AnyRule {
		head = fmt.Sprintf("%d", p.Rule)
	}
	if len(p.Children) == 0 {
		return head
	}
	s := head + "("
	for i, c := range p.Children {
		if i > 0 {
			s += ","
		}
		s += c.String()
	}
	return s + ")"
}

// Forbidden rejects every tree that embeds the pattern at any node.
// It implements GrammarConstraint by installing a localForbidden at each
// node as it appears; each local instance guards exactly one anchor path.
type Forbidden struct {
	pattern *Pattern
}

// NewForbidden creates a Forbidden constraint for the given pattern.
// A nil or wildcard-rooted pattern is rejected: it would forbid
// everything, which is a modelling error rather than a useful constraint.
func NewForbidden(pattern *Pattern) (*Forbidden, error) {
	if pattern == nil {
		return nil, fmt.Errorf("synth: Forbidden requires a pattern")
	}
	if pattern.Rule == AnyRule {
		return nil, fmt.Errorf("synth: Forbidden pattern root must name a rule, not a wildcard")
	}
	return &Forbidden{pattern: pattern}, nil
}

// OnNewNode implements GrammarConstraint.
func (f *Forbidden) OnNewNode(s *Solver, path Path) {
	s.Post(&localForbidden{path: path, pattern: f.pattern})
}

// String returns a human-readable representation.
func (f *Forbidden) String() string {
	return fmt.Sprintf("Forbidden(%s)", f.pattern)
}

// localForbidden watches the subtree anchored at path and ensures it never
// matches pattern. Immutable after posting, per the LocalConstraint
// contract.
type localForbidden struct {
	path    Path
	pattern *Pattern
}

// Path implements LocalConstraint.
func (lc *localForbidden) Path() Path { return lc.path }

// ShouldSchedule implements LocalConstraint: any mutation inside the
// anchored subtree can move the match verdict.
func (lc *localForbidden) ShouldSchedule(mutated Path) bool {
	return lc.path.IsPrefixOf(mutated)
}

// matchOutcome classifies a pattern-vs-subtree comparison.
type matchOutcome int

const (
	// matchFail: the subtree can never match the pattern, no matter how
	// remaining holes are filled. Domains only shrink and filled nodes are
	// permanent, so this verdict is final.
	matchFail matchOutcome = iota

	// matchHit: the subtree matches the pattern completely.
	matchHit

	// matchOpen: the verdict depends on holes that are still open or on
	// children that have not materialized yet.
	matchOpen
)

// openHole records a hole whose rule choice the pattern constrains.
type openHole struct {
	path Path
	rule int
}

// Propagate implements LocalConstraint.
//
// Verdicts:
//   - the pattern can no longer match here: constraint satisfied, drop it;
//   - the pattern fully matches: the state is infeasible;
//   - exactly one open hole separates the tree from a full match and the
//     rest already matches: remove the pattern's rule from that hole and
//     drop the constraint;
//   - otherwise stay active and wait for further mutations.
func (lc *localForbidden) Propagate(s *Solver) bool {
	node := s.Tree().At(lc.path)

	var holes []openHole
	unknown := 0
	outcome := matchPattern(node, lc.path, lc.pattern, &holes, &unknown)

	switch outcome {
	case matchFail:
		return true
	case matchHit:
		s.SetInfeasible()
		return true
	default:
		if unknown == 0 && len(holes) == 1 {
			s.Remove(holes[0].path, holes[0].rule)
			return true
		}
		return false
	}
}

// matchPattern compares the subtree at node against pat. It appends the
// holes whose rule choice the pattern pins to *holes and counts pattern
// positions whose children are not materialized yet in *unknown.
func matchPattern(node *Node, path Path, pat *Pattern, holes *[]openHole, unknown *int) matchOutcome {
	if pat.Rule == AnyRule {
		return matchHit
	}
	if !node.Domain().Has(pat.Rule) {
		return matchFail
	}

	open := !node.IsFilled()
	if open {
		*holes = append(*holes, openHole{path: path, rule: pat.Rule})
	}

	if len(pat.Children) > 0 {
		if !node.Shaped() {
			// Children unknown until the hole narrows to one shape.
			*unknown++
			return matchOpen
		}
		if len(node.Children()) < len(pat.Children) {
			return matchFail
		}
		anyOpen := open
		for i, pc := range pat.Children {
			switch matchPattern(node.Children()[i], path.Append(i), pc, holes, unknown) {
			case matchFail:
				return matchFail
			case matchOpen:
				anyOpen = true
			}
		}
		if anyOpen {
			return matchOpen
		}
		return matchHit
	}

	if open {
		return matchOpen
	}
	return matchHit
}
