package uid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNextIsUniqueAcrossConcurrentCallers exercises spec.md's Uid
// invariant: every call to Next returns a value never issued before,
// even when called concurrently from many goroutines, and Nil is never
// returned.
func TestNextIsUniqueAcrossConcurrentCallers(t *testing.T) {
	Reset()

	const n = 1000
	ids := make([]Uid, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = Next()
		}(i)
	}
	wg.Wait()

	seen := make(map[Uid]bool, n)
	for _, id := range ids {
		assert.NotEqual(t, Nil, id)
		assert.False(t, seen[id], "Uid %d issued more than once", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
