// Package synth provides best-first enumeration of derivation trees.
// This file defines the grammar boundary: the Grammar contract consumed by
// the solver and driver, and a table-backed implementation suitable for
// construction in code or from configuration.
package synth

import (
	"fmt"
	"strings"
)

// Symbol is a non-terminal (or terminal-producing) symbol of the grammar.
type Symbol string

// Grammar supplies the fixed universe of production rules for one search
// run. Rules are identified by 1-based integer indices. Implementations
// must be immutable while a search is in progress.
type Grammar interface {
	// RuleCount returns the number of rules. Valid indices are [1, RuleCount()].
	RuleCount() int

	// ReturnType returns the symbol the rule produces.
	ReturnType(rule int) Symbol

	// ChildTypes returns the ordered child symbols the rule requires.
	// Terminal rules return an empty (or nil) slice.
	ChildTypes(rule int) []Symbol

	// RulesWithReturnType returns the indices of all rules producing sym,
	// in ascending order. A symbol no rule produces yields an empty slice;
	// that is not an error here - it surfaces as an infeasible solver state.
	RulesWithReturnType(sym Symbol) []int
}

// Rule describes one production for TableGrammar construction.
type Rule struct {
	// Return is the symbol this rule produces. Required.
	Return Symbol

	// Children are the ordered child symbols. Empty for terminal rules.
	Children []Symbol

	// Label is an optional display name used by TableGrammar.Label.
	Label string
}

// TableGrammar is a slice-backed Grammar. Rule i of the constructor slice
// becomes rule index i+1.
type TableGrammar struct {
	rules  []Rule
	byType map[Symbol][]int
}

// NewTableGrammar builds a grammar from the given rules.
// It rejects an empty rule list and rules with an empty return symbol.
// Child symbols that no rule produces are accepted: a search over such a
// grammar simply finds the affected branches infeasible.
func NewTableGrammar(rules []Rule) (*TableGrammar, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("synth: grammar requires at least one rule")
	}
	byType := make(map[Symbol][]int)
	for i, r := range rules {
		if r.Return == "" {
			return nil, fmt.Errorf("synth: rule %d has empty return symbol", i+1)
		}
		for j, c := range r.Children {
			if c == "" {
				return nil, fmt.Errorf("synth: rule %d has empty child symbol at position %d", i+1, j)
			}
		}
		byType[r.Return] = append(byType[r.Return], i+1)
	}
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &TableGrammar{rules: cp, byType: byType}, nil
}

// RuleCount implements Grammar.
func (g *TableGrammar) RuleCount() int {
	return len(g.rules)
}

// ReturnType implements Grammar. Panics on an out-of-range index; rule
// indices are produced by this package and never come from runtime input.
func (g *TableGrammar) ReturnType(rule int) Symbol {
	return g.rules[g.check(rule)-1].Return
}

// ChildTypes implements Grammar.
func (g *TableGrammar) ChildTypes(rule int) []Symbol {
	return g.rules[g.check(rule)-1].Children
}

// RulesWithReturnType implements Grammar.
func (g *TableGrammar) RulesWithReturnType(sym Symbol) []int {
	return g.byType[sym]
}

// Label returns the rule's display label, or its index rendered as a
// number when no label was given.
func (g *TableGrammar) Label(rule int) string {
	r := g.rules[g.check(rule)-1]
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("%d", rule)
}

func (g *TableGrammar) check(rule int) int {
	if rule < 1 || rule > len(g.rules) {
		panic(fmt.Sprintf("synth: rule index %d out of range [1,%d]", rule, len(g.rules)))
	}
	return rule
}

// DomainOf returns the domain of all rules producing sym.
func DomainOf(g Grammar, sym Symbol) *RuleDomain {
	return NewRuleDomainOf(g.RuleCount(), g.RulesWithReturnType(sym))
}

// shapeSignature renders a rule's child-type sequence as a comparable key.
// Two rules with equal signatures induce the same children shape.
func shapeSignature(g Grammar, rule int) string {
	types := g.ChildTypes(rule)
	if len(types) == 0 {
		return ""
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, "\x1f")
}

// shapeUniform reports whether every rule in the domain shares one
// children-shape signature. Empty and singleton domains are uniform.
func shapeUniform(g Grammar, d *RuleDomain) bool {
	first := ""
	seen := false
	uniform := true
	d.Iterate(func(r int) {
		sig := shapeSignature(g, r)
		if !seen {
			first, seen = sig, true
			return
		}
		if sig != first {
			uniform = false
		}
	})
	return uniform
}
