// Package synth provides best-first enumeration of derivation trees.
// This file implements domain partitioning: splitting a hole's domain
// into shape-uniform sub-domains to branch on.
package synth

import "sort"

// PartitionFunc splits a hole's domain into an ordered sequence of
// sub-domains, each internally shape-uniform, pairwise disjoint, with
// union exactly equal to the input. The order defines enqueue order of
// the resulting branches, which affects result ordering but never
// correctness or completeness. A domain that is not shape-uniform must
// split into at least two parts; a single-part result would make the
// driver loop.
type PartitionFunc func(g Grammar, d *RuleDomain) []*RuleDomain

// PartitionByShape is the default partitioner: group rules by their
// children-shape signature, order groups by their least rule index.
func PartitionByShape(g Grammar, d *RuleDomain) []*RuleDomain {
	bySig := make(map[string][]int)
	var order []string
	d.Iterate(func(r int) {
		sig := shapeSignature(g, r)
		if _, ok := bySig[sig]; !ok {
			order = append(order, sig)
		}
		bySig[sig] = append(bySig[sig], r)
	})

	// Iterate already yields rules in ascending order, so the first rule
	// of each group is its minimum; sorting groups by that value gives a
	// deterministic, index-ordered branching sequence.
	sort.Slice(order, func(i, j int) bool {
		return bySig[order[i]][0] < bySig[order[j]][0]
	})

	parts := make([]*RuleDomain, 0, len(order))
	for _, sig := range order {
		parts = append(parts, NewRuleDomainOf(d.RuleMax(), bySig[sig]))
	}
	return parts
}
