package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRuleDomainConstruction tests domain constructors.
func TestRuleDomainConstruction(t *testing.T) {
	t.Run("full domain contains every rule", func(t *testing.T) {
		d := NewRuleDomain(5)
		require.Equal(t, 5, d.Count())
		for r := 1; r <= 5; r++ {
			assert.True(t, d.Has(r), "rule %d", r)
		}
		assert.False(t, d.Has(0))
		assert.False(t, d.Has(6))
	})

	t.Run("explicit rule set", func(t *testing.T) {
		d := NewRuleDomainOf(9, []int{2, 7, 9})
		assert.Equal(t, []int{2, 7, 9}, d.Rules())
	})

	t.Run("out of range rules are ignored", func(t *testing.T) {
		d := NewRuleDomainOf(3, []int{0, 2, 4, -1})
		assert.Equal(t, []int{2}, d.Rules())
	})

	t.Run("non-positive universe is empty", func(t *testing.T) {
		assert.True(t, NewRuleDomain(0).IsEmpty())
		assert.True(t, NewRuleDomainOf(-1, []int{1}).IsEmpty())
	})

	t.Run("large universe crosses word boundaries", func(t *testing.T) {
		d := NewRuleDomainOf(130, []int{1, 64, 65, 128, 129, 130})
		assert.Equal(t, []int{1, 64, 65, 128, 129, 130}, d.Rules())
		assert.Equal(t, 6, d.Count())
	})
}

// TestRuleDomainNarrowing tests the immutable narrowing operations.
func TestRuleDomainNarrowing(t *testing.T) {
	t.Run("Remove leaves the receiver unchanged", func(t *testing.T) {
		d := NewRuleDomain(4)
		nd := d.Remove(2, 3)
		assert.Equal(t, []int{1, 4}, nd.Rules())
		assert.Equal(t, 4, d.Count())
	})

	t.Run("Remove of absent rule is identity", func(t *testing.T) {
		d := NewRuleDomainOf(4, []int{1, 4})
		assert.True(t, d.Remove(2).Equal(d))
	})

	t.Run("Intersect", func(t *testing.T) {
		a := NewRuleDomainOf(6, []int{1, 2, 3, 5})
		b := NewRuleDomainOf(6, []int{2, 5, 6})
		assert.Equal(t, []int{2, 5}, a.Intersect(b).Rules())
	})

	t.Run("Intersect across universes is empty", func(t *testing.T) {
		a := NewRuleDomainOf(6, []int{1})
		b := NewRuleDomainOf(7, []int{1})
		assert.True(t, a.Intersect(b).IsEmpty())
	})

	t.Run("SubsetOf", func(t *testing.T) {
		a := NewRuleDomainOf(6, []int{2, 5})
		b := NewRuleDomainOf(6, []int{1, 2, 5})
		assert.True(t, a.SubsetOf(b))
		assert.False(t, b.SubsetOf(a))
		assert.True(t, a.SubsetOf(a))
	})
}

// TestRuleDomainSingleton tests the filled-node convention.
func TestRuleDomainSingleton(t *testing.T) {
	t.Run("singleton value", func(t *testing.T) {
		d := NewRuleDomainOf(9, []int{7})
		require.True(t, d.IsSingleton())
		assert.Equal(t, 7, d.SingletonValue())
	})

	t.Run("SingletonValue panics on wider domain", func(t *testing.T) {
		d := NewRuleDomainOf(9, []int{1, 7})
		assert.Panics(t, func() { d.SingletonValue() })
	})

	t.Run("SingletonValue panics on empty domain", func(t *testing.T) {
		d := NewRuleDomainOf(9, nil)
		assert.Panics(t, func() { d.SingletonValue() })
	})
}

// TestRuleDomainIterate tests ascending iteration order.
func TestRuleDomainIterate(t *testing.T) {
	d := NewRuleDomainOf(100, []int{90, 3, 41})
	var got []int
	d.Iterate(func(r int) { got = append(got, r) })
	assert.Equal(t, []int{3, 41, 90}, got)
}

// TestRuleDomainString tests the diagnostic rendering.
func TestRuleDomainString(t *testing.T) {
	assert.Equal(t, "{1,3}", NewRuleDomainOf(4, []int{3, 1}).String())
	assert.Equal(t, "{}", NewRuleDomainOf(4, nil).String())
}
