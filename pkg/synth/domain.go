// Package synth provides best-first enumeration of derivation trees drawn
// from a context-free grammar, with incremental constraint propagation.
// This file defines RuleDomain, the finite set of candidate rules a hole
// may still take, backed by a compact bitset.
package synth

import (
	"fmt"
	"math/bits"
	"strings"
)

// RuleDomain is an immutable set of grammar rule indices. Rule indices are
// 1-based in the range [1, ruleMax], mirroring the grammar's numbering.
// Each rule is represented by a single bit in a uint64 word array, giving
// O(1) membership testing and fast set operations.
//
// RuleDomain is immutable - all narrowing operations return new instances
// rather than modifying in place. Immutability is what makes solver
// snapshots cheap: a snapshot shares domains with the live tree and only
// copies node records.
//
// An empty domain represents an inconsistent state: the hole it belongs to
// cannot be filled by any rule.
type RuleDomain struct {
	ruleMax int      // Highest representable rule index (inclusive)
	words   []uint64 // Bit array: bit i represents rule i+1
}

// NewRuleDomain creates a domain containing every rule from 1 to ruleMax.
// ruleMax must be positive; a non-positive value yields an empty domain.
func NewRuleDomain(ruleMax int) *RuleDomain {
	if ruleMax <= 0 {
		return &RuleDomain{ruleMax: 0, words: nil}
	}
	d := &RuleDomain{
		ruleMax: ruleMax,
		words:   make([]uint64, (ruleMax+63)/64),
	}
	for i := 0; i < ruleMax; i++ {
		d.words[i/64] |= 1 << uint(i%64)
	}
	return d
}

// NewRuleDomainOf creates a domain containing only the given rules.
// Rules outside [1, ruleMax] are ignored.
func NewRuleDomainOf(ruleMax int, rules []int) *RuleDomain {
	if ruleMax <= 0 {
		return &RuleDomain{ruleMax: 0, words: nil}
	}
	d := &RuleDomain{
		ruleMax: ruleMax,
		words:   make([]uint64, (ruleMax+63)/64),
	}
	for _, r := range rules {
		if r >= 1 && r <= ruleMax {
			d.words[(r-1)/64] |= 1 << uint((r-1)%64)
		}
	}
	return d
}

// Count returns the number of rules in the domain.
// Uses hardware popcount, O(words).
func (d *RuleDomain) Count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the domain contains no rules.
func (d *RuleDomain) IsEmpty() bool {
	for _, w := range d.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Has returns true if the domain contains the given rule. O(1).
func (d *RuleDomain) Has(rule int) bool {
	if rule < 1 || rule > d.ruleMax {
		return false
	}
	return (d.words[(rule-1)/64]>>uint((rule-1)%64))&1 == 1
}

// IsSingleton returns true if the domain contains exactly one rule.
// A hole with a singleton domain is filled by convention.
func (d *RuleDomain) IsSingleton() bool {
	return d.Count() == 1
}

// SingletonValue returns the single rule in the domain.
// Panics if the domain is not a singleton.
func (d *RuleDomain) SingletonValue() int {
	seen := -1
	for i, w := range d.words {
		if w == 0 {
			continue
		}
		if seen >= 0 || bits.OnesCount64(w) > 1 {
			panic("synth: SingletonValue on non-singleton domain")
		}
		seen = i*64 + bits.TrailingZeros64(w) + 1
	}
	if seen < 0 {
		panic("synth: SingletonValue on empty domain")
	}
	return seen
}

// Iterate calls f for each rule in the domain in ascending index order.
func (d *RuleDomain) Iterate(f func(rule int)) {
	for i, w := range d.words {
		for w != 0 {
			low := w & -w
			f(i*64 + bits.TrailingZeros64(w) + 1)
			w &^= low
		}
	}
}

// Rules returns all rules in the domain as a sorted slice.
func (d *RuleDomain) Rules() []int {
	out := make([]int, 0, d.Count())
	d.Iterate(func(r int) { out = append(out, r) })
	return out
}

// Remove returns a new domain with the given rules excluded.
// Rules not present (or out of range) are ignored.
func (d *RuleDomain) Remove(rules ...int) *RuleDomain {
	nd := d.clone()
	for _, r := range rules {
		if r >= 1 && r <= d.ruleMax {
			nd.words[(r-1)/64] &^= 1 << uint((r-1)%64)
		}
	}
	return nd
}

// Intersect returns a new domain containing only rules present in both
// domains. This is the narrowing primitive behind remove_all_but.
// Domains over different rule universes intersect to empty.
func (d *RuleDomain) Intersect(other *RuleDomain) *RuleDomain {
	if other == nil || d.ruleMax != other.ruleMax {
		return &RuleDomain{ruleMax: d.ruleMax, words: make([]uint64, len(d.words))}
	}
	nd := &RuleDomain{ruleMax: d.ruleMax, words: make([]uint64, len(d.words))}
	for i := range d.words {
		nd.words[i] = d.words[i] & other.words[i]
	}
	return nd
}

// SubsetOf reports whether every rule in d is also in other.
func (d *RuleDomain) SubsetOf(other *RuleDomain) bool {
	if other == nil || d.ruleMax != other.ruleMax {
		return d.IsEmpty()
	}
	for i := range d.words {
		if d.words[i]&^other.words[i] != 0 {
			return false
		}
	}
	return true
}

// Equal returns true if both domains contain exactly the same rules.
func (d *RuleDomain) Equal(other *RuleDomain) bool {
	if other == nil || d.ruleMax != other.ruleMax {
		return false
	}
	for i := range d.words {
		if d.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// RuleMax returns the highest rule index representable in this domain.
func (d *RuleDomain) RuleMax() int {
	return d.ruleMax
}

func (d *RuleDomain) clone() *RuleDomain {
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	return &RuleDomain{ruleMax: d.ruleMax, words: words}
}

// String returns a human-readable representation, e.g. "{1,2,5}".
func (d *RuleDomain) String() string {
	var b strings.Builder
	b.WriteString("{")
	first := true
	d.Iterate(func(r int) {
		if !first {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", r)
		first = false
	})
	b.WriteString("}")
	return b.String()
}
