package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionSet_ToggleDoesNotMutate(t *testing.T) {
	base := NewSelectionSet("a")

	next := base.Toggle("b")

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, []string{"a", "b"}, next.IDs())
	assert.Equal(t, []string{"b"}, ToggleSelection(next, "a").IDs())
}

func TestSelectAll(t *testing.T) {
	visible := []string{"x", "y"}

	all := SelectAll(visible, true)
	assert.True(t, all.ContainsAll(visible))
	assert.Equal(t, 2, all.Len())

	none := SelectAll(visible, false)
	assert.Equal(t, 0, none.Len())
	assert.False(t, none.ContainsAll(nil))
}
