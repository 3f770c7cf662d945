package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhr/llamagate/internal/core"
)

func turn(in, out string) core.Turn {
	return core.Turn{Input: in, Output: out}
}

func TestCache_WindowKeepsMostRecent(t *testing.T) {
	c := NewCache(8, 3)

	for i := 0; i < 5; i++ {
		c.Append("s1", turn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	got := c.Get("s1", 10)
	require.Len(t, got, 3)

	// Oldest-first within the retained window.
	assert.Equal(t, "q2", got[0].Input)
	assert.Equal(t, "q3", got[1].Input)
	assert.Equal(t, "q4", got[2].Input)
}

func TestCache_GetLimitAndUnknownSession(t *testing.T) {
	c := NewCache(8, 10)
	c.Append("s1", turn("q0", "a0"))
	c.Append("s1", turn("q1", "a1"))
	c.Append("s1", turn("q2", "a2"))

	got := c.Get("s1", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].Input)
	assert.Equal(t, "q2", got[1].Input)

	assert.Nil(t, c.Get("unknown", 5))
}

func TestCache_EvictsLeastRecentSessions(t *testing.T) {
	c := NewCache(2, 10)
	c.Append("a", turn("qa", "aa"))
	c.Append("b", turn("qb", "ab"))
	c.Append("c", turn("qc", "ac"))

	assert.Equal(t, 2, c.Sessions())
	assert.Nil(t, c.Get("a", 5), "oldest session should have been evicted")
	assert.NotNil(t, c.Get("b", 5))
	assert.NotNil(t, c.Get("c", 5))
}

func TestCache_ConcurrentAppendsSameSession(t *testing.T) {
	const writers = 16
	const perWriter = 50

	c := NewCache(8, writers*perWriter)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				c.Append("s1", turn(fmt.Sprintf("w%d-%d", w, i), "a"))
			}
		}(w)
	}
	wg.Wait()

	// Per-session serialization means no append may be lost.
	assert.Len(t, c.Get("s1", 0), writers*perWriter)
}
