package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func always(v bool) func() bool {
	return func() bool { return v }
}

func TestBlockStack(t *testing.T) {
	var b BlockStack
	assert.True(t, b.Executing())
	assert.Equal(t, 0, b.Depth())

	assert.NoError(t, b.If(always(false)))
	assert.False(t, b.Executing())

	assert.NoError(t, b.Else())
	assert.True(t, b.Executing())

	assert.NoError(t, b.Else())
	state, ok := b.Top()
	assert.True(t, ok)
	assert.Equal(t, SkippingToEndif, state)

	assert.NoError(t, b.EndIf())
	assert.True(t, b.Executing())
	assert.Equal(t, 0, b.Depth())
}

func TestBlockStack_nestedInSkippedBlock(t *testing.T) {
	var b BlockStack
	assert.NoError(t, b.If(always(false)))

	evaluated := false
	assert.NoError(t, b.If(func() bool {
		evaluated = true
		return true
	}))
	assert.False(t, evaluated, "conditions in skipped blocks aren't evaluated")
	assert.False(t, b.Executing())

	// ELSE of a block inside a skipped block still skips.
	assert.NoError(t, b.Else())
	assert.False(t, b.Executing())

	assert.NoError(t, b.EndIf())
	assert.NoError(t, b.Else())
	assert.True(t, b.Executing())
}

func TestBlockStack_skippingToElseNested(t *testing.T) {
	var b BlockStack
	assert.NoError(t, b.If(always(true)))
	assert.NoError(t, b.If(always(false)))
	assert.NoError(t, b.Else())
	assert.True(t, b.Executing())
}

func TestBlockStack_errors(t *testing.T) {
	var b BlockStack
	assert.ErrorIs(t, b.Else(), ErrNoMatchingIf)
	assert.ErrorIs(t, b.EndIf(), ErrNoMatchingIf)

	for i := 0; i < MaxNest; i++ {
		assert.NoError(t, b.If(always(true)))
	}
	assert.ErrorIs(t, b.If(always(true)), ErrTooManyBlocks)
	assert.Equal(t, MaxNest, b.Depth())
}

func TestBlockState_String(t *testing.T) {
	assert.Equal(t, "executing", Executing.String())
	assert.Equal(t, "skipping-to-else", SkippingToElse.String())
	assert.Equal(t, "skipping-to-endif", SkippingToEndif.String())
	assert.Equal(t, "unknown", BlockState(42).String())
}
