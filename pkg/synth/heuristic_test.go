package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLeftmostHeuristic tests the default hole-selection policy.
func TestLeftmostHeuristic(t *testing.T) {
	g := arithGrammar(t)

	t.Run("non-uniform root is selected", func(t *testing.T) {
		s := NewSolver(g, 3, nil)
		s.NewState(NewHole("Num", DomainOf(g, "Num")))
		decision, hole := LeftmostHeuristic(g, s.Tree(), 3)
		require.Equal(t, DecisionHole, decision)
		assert.Equal(t, "ε", hole.Path.String())
		assert.Equal(t, []int{1, 2, 3}, hole.Domain.Rules())
	})

	t.Run("shallowest leftmost hole wins", func(t *testing.T) {
		s := NewSolver(g, 3, nil)
		s.NewState(NewHole("Num", NewRuleDomainOf(3, []int{3})))
		decision, hole := LeftmostHeuristic(g, s.Tree(), 3)
		require.Equal(t, DecisionHole, decision)
		assert.Equal(t, "0", hole.Path.String())
	})

	t.Run("all-uniform tree reports uniform", func(t *testing.T) {
		s := NewSolver(g, 3, nil)
		s.NewState(NewHole("Num", NewRuleDomainOf(3, []int{1, 2})))
		decision, _ := LeftmostHeuristic(g, s.Tree(), 3)
		assert.Equal(t, DecisionUniform, decision)
	})

	t.Run("zero depth bound rejects even a lone node", func(t *testing.T) {
		s := NewSolver(g, 0, nil)
		s.NewState(NewHole("Num", DomainOf(g, "Num")))
		decision, _ := LeftmostHeuristic(g, s.Tree(), 0)
		assert.Equal(t, DecisionLimit, decision)
	})

	t.Run("node at the bound reports limit-reached", func(t *testing.T) {
		// Build a two-level tree, then judge it against a bound of one.
		s := NewSolver(g, 2, nil)
		s.NewState(NewHole("Num", NewRuleDomainOf(3, []int{3})))
		decision, _ := LeftmostHeuristic(g, s.Tree(), 1)
		assert.Equal(t, DecisionLimit, decision)
	})
}

// TestRightmostHeuristic tests the mirrored scan order.
func TestRightmostHeuristic(t *testing.T) {
	g := arithGrammar(t)
	s := NewSolver(g, 3, nil)
	s.NewState(NewHole("Num", NewRuleDomainOf(3, []int{3})))

	decision, hole := RightmostHeuristic(g, s.Tree(), 3)
	require.Equal(t, DecisionHole, decision)
	assert.Equal(t, "1", hole.Path.String())
}

// TestHoleDecisionString tests diagnostic names.
func TestHoleDecisionString(t *testing.T) {
	assert.Equal(t, "hole", DecisionHole.String())
	assert.Equal(t, "uniform", DecisionUniform.String())
	assert.Equal(t, "limit-reached", DecisionLimit.String())
	assert.Equal(t, "unknown", HoleDecision(99).String())
}
