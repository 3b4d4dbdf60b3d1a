// Package synth provides best-first enumeration of derivation trees.
// This file defines the derivation tree itself: nodes that are either
// filled (singleton domain) or holes (wider domain), and paths that
// address nodes without holding direct references, so snapshot/restore
// never invalidates an address.
package synth

import (
	"fmt"
	"strings"
)

// Path addresses a node as the sequence of child indices from the root.
// The empty path addresses the root. Paths are values: Append copies.
type Path []int

// Append returns a new path extended by one child index.
// The receiver is never modified.
func (p Path) Append(i int) Path {
	np := make(Path, len(p)+1)
	copy(np, p)
	np[len(p)] = i
	return np
}

// IsPrefixOf reports whether p is a (non-strict) prefix of q.
func (p Path) IsPrefixOf(q Path) bool {
	if len(p) > len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path, "ε" for the root.
func (p Path) String() string {
	if len(p) == 0 {
		return "ε"
	}
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ".")
}

// Node is one node of a derivation tree. A node is filled when its domain
// is a singleton and a hole otherwise. Children exist only once the
// domain has narrowed to rules sharing one children shape (the node is
// then "shaped"); until that point the subtree below is undetermined.
//
// Invariant: the node's domain contains only rules whose return type is
// the node's type, which in turn equals the type required by the parent's
// corresponding child slot (or the start symbol for the root).
type Node struct {
	typ      Symbol
	domain   *RuleDomain
	children []*Node
	shaped   bool
}

// NewHole creates an unshaped hole of the given type and domain.
func NewHole(typ Symbol, domain *RuleDomain) *Node {
	return &Node{typ: typ, domain: domain}
}

// Type returns the symbol this node must produce.
func (n *Node) Type() Symbol { return n.typ }

// Domain returns the node's candidate rule set. Callers must treat the
// returned domain as immutable.
func (n *Node) Domain() *RuleDomain { return n.domain }

// Children returns the node's children, or nil while the node is unshaped.
func (n *Node) Children() []*Node { return n.children }

// Shaped reports whether children have been materialized.
func (n *Node) Shaped() bool { return n.shaped }

// IsFilled reports whether the node is bound to exactly one rule.
func (n *Node) IsFilled() bool { return n.domain.IsSingleton() }

// Rule returns the single rule of a filled node.
// Panics on a hole; callers check IsFilled first.
func (n *Node) Rule() int { return n.domain.SingletonValue() }

// At returns the node addressed by path. A dangling path is a programming
// error: the propagation layer keeps paths consistent with the tree shape,
// so At fails fast rather than returning an error.
func (n *Node) At(path Path) *Node {
	cur := n
	for depth, i := range path {
		if i < 0 || i >= len(cur.children) {
			panic(fmt.Sprintf("synth: no node at path %s (missing child %d at depth %d)", path, i, depth))
		}
		cur = cur.children[i]
	}
	return cur
}

// DeepCopy clones the tree. Domains are immutable and shared between the
// copy and the original.
func (n *Node) DeepCopy() *Node {
	cp := &Node{typ: n.typ, domain: n.domain, shaped: n.shaped}
	if n.children != nil {
		cp.children = make([]*Node, len(n.children))
		for i, c := range n.children {
			cp.children[i] = c.DeepCopy()
		}
	}
	return cp
}

// Walk visits the subtree in preorder (node before children, children
// left to right). Returning false from f stops the walk.
func (n *Node) Walk(f func(path Path, node *Node) bool) {
	n.walk(Path{}, f)
}

func (n *Node) walk(path Path, f func(Path, *Node) bool) bool {
	if !f(path, n) {
		return false
	}
	for i, c := range n.children {
		if !c.walk(path.Append(i), f) {
			return false
		}
	}
	return true
}

// Size returns the number of nodes currently in the tree.
// For a complete tree this is the program size.
func (n *Node) Size() int {
	size := 1
	for _, c := range n.children {
		size += c.Size()
	}
	return size
}

// Depth returns the number of levels in the tree: 1 for a lone node.
func (n *Node) Depth() int {
	max := 0
	for _, c := range n.children {
		if d := c.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Complete reports whether every node is filled and shaped, i.e. the tree
// is a concrete program with no remaining choice.
func (n *Node) Complete() bool {
	if !n.IsFilled() || !n.shaped {
		return false
	}
	for _, c := range n.children {
		if !c.Complete() {
			return false
		}
	}
	return true
}

// Equal reports structural equality: same types, same domains, same shape.
func (n *Node) Equal(other *Node) bool {
	if other == nil || n.typ != other.typ || n.shaped != other.shaped {
		return false
	}
	if !n.domain.Equal(other.domain) {
		return false
	}
	if len(n.children) != len(other.children) {
		return false
	}
	for i, c := range n.children {
		if !c.Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// String renders filled nodes as "3" or "3(1,2)" and holes as "?{1,2}".
func (n *Node) String() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	if !n.IsFilled() {
		b.WriteString("?")
		b.WriteString(n.domain.String())
	} else {
		fmt.Fprintf(b, "%d", n.Rule())
	}
	if len(n.children) > 0 {
		b.WriteString("(")
		for i, c := range n.children {
			if i > 0 {
				b.WriteString(",")
			}
			c.render(b)
		}
		b.WriteString(")")
	}
}
