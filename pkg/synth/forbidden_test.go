package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewForbiddenValidation tests pattern validation.
func TestNewForbiddenValidation(t *testing.T) {
	t.Run("nil pattern", func(t *testing.T) {
		_, err := NewForbidden(nil)
		assert.Error(t, err)
	})

	t.Run("wildcard root", func(t *testing.T) {
		_, err := NewForbidden(Pat(AnyRule, Pat(1)))
		assert.Error(t, err)
	})
}

// TestPatternString tests diagnostic rendering.
func TestPatternString(t *testing.T) {
	assert.Equal(t, "3(1,_)", Pat(3, Pat(1), Pat(AnyRule)).String())
	assert.Equal(t, "2", Pat(2).String())
	fb, err := NewForbidden(Pat(3, Pat(1)))
	require.NoError(t, err)
	assert.Equal(t, "Forbidden(3(1))", fb.String())
}

// TestForbiddenWildcardChild tests that a wildcard child constrains only
// the sibling positions.
func TestForbiddenWildcardChild(t *testing.T) {
	g := arithGrammar(t)
	fb, err := NewForbidden(Pat(3, Pat(1), Pat(AnyRule)))
	require.NoError(t, err)

	it, err := NewTopDownIterator(g, "Num", IteratorConfig{
		MaxDepth:    2,
		Constraints: []GrammarConstraint{fb},
	})
	require.NoError(t, err)

	// Everything of the form 3(1,_) is gone.
	assert.Equal(t, []string{"1", "2", "3(2,1)", "3(2,2)"}, collect(t, it))
}

// TestForbiddenShallowPattern tests a childless pattern: the rule is
// banned everywhere it could appear.
func TestForbiddenShallowPattern(t *testing.T) {
	g := arithGrammar(t)
	fb, err := NewForbidden(Pat(3))
	require.NoError(t, err)

	it, err := NewTopDownIterator(g, "Num", IteratorConfig{
		MaxDepth:    3,
		Constraints: []GrammarConstraint{fb},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, collect(t, it))
}

// TestForbiddenNestedPattern tests a pattern two levels deep against the
// full depth-three space.
func TestForbiddenNestedPattern(t *testing.T) {
	g := arithGrammar(t)
	fb, err := NewForbidden(Pat(3, Pat(3, Pat(1), Pat(1)), Pat(2)))
	require.NoError(t, err)

	it, err := NewTopDownIterator(g, "Num", IteratorConfig{
		MaxDepth:    3,
		Constraints: []GrammarConstraint{fb},
	})
	require.NoError(t, err)

	seen := make(map[string]bool)
	for tree := range it.Trees() {
		seen[tree.String()] = true
	}
	assert.Len(t, seen, 37, "one tree of 38 matches the pattern")
	assert.False(t, seen["3(3(1,1),2)"])
	assert.True(t, seen["3(3(1,2),2)"])
	assert.True(t, seen["3(3(1,1),1)"])
}

// TestForbiddenAnchorsEverywhere tests that the pattern is rejected at
// inner nodes, not only at the root.
func TestForbiddenAnchorsEverywhere(t *testing.T) {
	g := arithGrammar(t)
	fb, err := NewForbidden(Pat(3, Pat(1), Pat(1)))
	require.NoError(t, err)

	it, err := NewTopDownIterator(g, "Num", IteratorConfig{
		MaxDepth:    3,
		Constraints: []GrammarConstraint{fb},
	})
	require.NoError(t, err)

	for tree := range it.Trees() {
		s := tree.String()
		assert.NotContains(t, s, "3(1,1)", "tree %s embeds the pattern", s)
	}
}
