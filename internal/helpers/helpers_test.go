package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlice(t *testing.T) {
	a := make([]int, 0, 5)
	b := append(a[:0], 1, 2, 3, 4)
	c := append(a[:0], 4, 5, 6)

	assert.Equal(t, []int{}, a)
	assert.Equal(t, []int{4, 5, 6, 4}, b)
	assert.Equal(t, []int{4, 5, 6}, c)
}

func TestSliceHelpers(t *testing.T) {
	xs := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 4, 6, 8, 10}, MapSlice(xs, func(x int) int { return x * 2 }))
	assert.Equal(t, []int{2, 4}, FilterSlice(xs, func(x int) bool { return x%2 == 0 }))
	assert.Equal(t, 3, FindInSlice(xs, func(x int) bool { return x > 2 }).Value())
	assert.True(t, FindInSlice(xs, func(x int) bool { return x > 5 }).IsEmpty())
	assert.True(t, Contains(xs, 4))
	assert.False(t, Contains(xs, 9))
	assert.Equal(t, 5, Last(xs))
}

func TestOptional(t *testing.T) {
	o := Some("duck")
	assert.True(t, o.HasValue())
	assert.Equal(t, "duck", o.Value())

	e := Empty[string]()
	assert.True(t, e.IsEmpty())
	assert.Equal(t, "fallback", e.ValueOr("fallback"))
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 4, AbsDiff(1, 5))
	assert.Equal(t, 4, AbsDiff(5, 1))
	assert.Equal(t, 1, Min(1, 5))
	assert.Equal(t, 5, Max(1, 5))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "> a\n> b", Indent("a\nb", "> "))
	assert.Equal(t, "abcd...", Ellipses("abcdefghij", 7))
	assert.Equal(t, "abc", Ellipses("abc", 7))
}

func TestPool(t *testing.T) {
	get, release, stats := CreatePool(func() []int {
		return make([]int, 0, 8)
	}, func(xs *[]int) {
		*xs = (*xs)[:0]
	})

	a := get()
	*a = append(*a, 1, 2, 3)
	release(a)

	b := get()
	assert.Equal(t, 0, len(*b))
	assert.Equal(t, "creates: 1, resets: 1, hits: 1", stats().String())
}
