package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhr/llamagate/internal/core"
)

type fakeStore struct {
	byDay      []core.Turn
	bySession  []core.Turn
	dayCalls   int
	sessCalls  int
	failAppend error
}

func (f *fakeStore) Append(_ context.Context, _ core.Turn) error { return f.failAppend }

func (f *fakeStore) BySession(_ context.Context, _ string, limit int) ([]core.Turn, error) {
	f.sessCalls++
	if limit < len(f.bySession) {
		return f.bySession[:limit], nil
	}
	return f.bySession, nil
}

func (f *fakeStore) ByDay(_ context.Context, _ string, limit int) ([]core.Turn, error) {
	f.dayCalls++
	if limit < len(f.byDay) {
		return f.byDay[:limit], nil
	}
	return f.byDay, nil
}

func TestComposer_EmptyHistoryYieldsEmptyContext(t *testing.T) {
	c := NewComposer(NewCache(8, 10), &fakeStore{}, 5, 50, 1000, nil)

	text, err := c.Compose(context.Background(), "fresh-session", "2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, text, "no prior turns must produce no history lines")
}

func TestComposer_BlendsSameDayAndSessionTurns(t *testing.T) {
	store := &fakeStore{
		byDay: []core.Turn{
			{SessionID: "other", Input: "their question", Output: "their answer"},
			{SessionID: "mine", Input: "earlier question", Output: "earlier answer"},
		},
	}
	cache := NewCache(8, 10)
	cache.Append("mine", core.Turn{Input: "cached question", Output: "cached answer"})

	c := NewComposer(cache, store, 5, 50, 1000, nil)
	text, err := c.Compose(context.Background(), "mine", "2026-08-28")
	require.NoError(t, err)

	want := "Session other: User: their question\nAssistant: their answer\n" +
		"Session mine: User: earlier question\nAssistant: earlier answer\n" +
		"User: cached question\nAssistant: cached answer"
	assert.Equal(t, want, text)

	// Cache had entries, so the per-session store query must not run.
	assert.Equal(t, 0, store.sessCalls)
}

func TestComposer_FallsBackToStoreWhenCacheEmpty(t *testing.T) {
	store := &fakeStore{
		bySession: []core.Turn{
			{SessionID: "mine", Input: "newest", Output: "n"},
			{SessionID: "mine", Input: "oldest", Output: "o"},
		},
	}

	c := NewComposer(NewCache(8, 10), store, 5, 50, 1000, nil)
	text, err := c.Compose(context.Background(), "mine", "2026-08-28")
	require.NoError(t, err)

	// Store fallback keeps the store's newest-first ordering.
	assert.Equal(t, "User: newest\nAssistant: n\nUser: oldest\nAssistant: o", text)
	assert.Equal(t, 1, store.sessCalls)
}

func TestComposer_TruncatesToTrailingCharBudget(t *testing.T) {
	var turns []core.Turn
	for i := 0; i < 40; i++ {
		turns = append(turns, core.Turn{
			SessionID: "s",
			Input:     fmt.Sprintf("question number %d with some padding text", i),
			Output:    strings.Repeat("x", 120),
		})
	}
	store := &fakeStore{byDay: turns}

	const maxTokens = 100 // 400-char budget
	c := NewComposer(NewCache(8, 10), store, 5, 50, maxTokens, nil)

	text, err := c.Compose(context.Background(), "s", "2026-08-28")
	require.NoError(t, err)

	// Rebuild the untruncated concatenation and compare against its suffix.
	var lines []string
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("Session %s: User: %s\nAssistant: %s", turn.SessionID, turn.Input, turn.Output))
	}
	full := strings.Join(lines, "\n")

	budget := maxTokens * CharsPerToken
	require.Greater(t, len(full), budget)
	assert.Len(t, text, budget)
	assert.Equal(t, full[len(full)-budget:], text)
}

func TestCountTokens(t *testing.T) {
	assert.Zero(t, CountTokens(""))
	assert.Greater(t, CountTokens("hello world, how are you today?"), 0)
}
