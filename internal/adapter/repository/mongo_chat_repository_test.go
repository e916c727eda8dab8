package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTailWindowBoundsFirstPageIsNewest(t *testing.T) {
	start, length := TailWindowBounds(10, 1, 3)
	assert.Equal(t, 7, start)
	assert.Equal(t, 3, length)
}

func TestTailWindowBoundsWalksBackwards(t *testing.T) {
	start, length := TailWindowBounds(10, 2, 3)
	assert.Equal(t, 4, start)
	assert.Equal(t, 3, length)

	start, length = TailWindowBounds(10, 3, 3)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, length)
}

func TestTailWindowBoundsPartialOldestPage(t *testing.T) {
	start, length := TailWindowBounds(10, 4, 3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, length)

	start, length = TailWindowBounds(7, 3, 3)
	assert.Equal(t, 0, start)
	assert.Equal(t, 1, length)
}

func TestTailWindowBoundsBeyondHistoryIsEmpty(t *testing.T) {
	_, length := TailWindowBounds(10, 5, 3)
	assert.Zero(t, length)

	_, length = TailWindowBounds(0, 1, 3)
	assert.Zero(t, length)

	_, length = TailWindowBounds(6, 3, 3)
	assert.Zero(t, length)
}

func TestTailWindowBoundsCoercesInputs(t *testing.T) {
	start, length := TailWindowBounds(10, 0, 0)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, length)
}

func TestTailWindowBoundsWindowsNeverOverlap(t *testing.T) {
	total, size := 23, 4
	covered := map[int]bool{}
	for page := 1; ; page++ {
		start, length := TailWindowBounds(total, page, size)
		if length == 0 {
			break
		}
		for i := start; i < start+length; i++ {
			assert.False(t, covered[i], "index %d returned twice", i)
			covered[i] = true
		}
	}
	assert.Len(t, covered, total)
}
