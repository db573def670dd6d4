package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCommandMarkers(t *testing.T) {
	assert.True(t, HasCommandMarkers("{NUM} items"))
	assert.True(t, HasCommandMarkers("stray }"))
	assert.False(t, HasCommandMarkers("plain text"))
}

func TestHashIsStable(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash(""), 64)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))
}
