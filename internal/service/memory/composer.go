package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/pkg/log"
)

// CharsPerToken is the rough approximation used to turn the token budget
// into a character budget for context truncation.
const CharsPerToken = 4

// Composer blends the same-day cross-session history and the session's
// own recent turns into one bounded context block.
type Composer struct {
	cache core.SessionCache
	store core.HistoryRepository

	sessionLimit int
	sameDayLimit int
	maxTokens    int
	metrics      *observability.Metrics
}

func NewComposer(cache core.SessionCache, store core.HistoryRepository, sessionLimit, sameDayLimit, maxTokens int, metrics *observability.Metrics) *Composer {
	if sessionLimit <= 0 {
		sessionLimit = 5
	}
	if sameDayLimit <= 0 {
		sameDayLimit = 50
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &Composer{
		cache:        cache,
		store:        store,
		sessionLimit: sessionLimit,
		sameDayLimit: sameDayLimit,
		maxTokens:    maxTokens,
		metrics:      metrics,
	}
}

// Compose renders the same-day turns (all sessions, newest-first, as the
// store returns them) followed by the session's own turns. The session
// window prefers the volatile cache and falls back to the durable store
// only when the cache has nothing for that session. The result is
// truncated to the trailing maxTokens*CharsPerToken bytes, dropping the
// oldest content first.
func (c *Composer) Compose(ctx context.Context, sessionID, day string) (string, error) {
	sameDay, err := c.store.ByDay(ctx, day, c.sameDayLimit)
	if err != nil {
		return "", err
	}

	session := c.cache.Get(sessionID, c.sessionLimit)
	if len(session) == 0 {
		session, err = c.store.BySession(ctx, sessionID, c.sessionLimit)
		if err != nil {
			return "", err
		}
	}

	var blocks []string
	if len(sameDay) > 0 {
		lines := make([]string, 0, len(sameDay))
		for _, t := range sameDay {
			lines = append(lines, fmt.Sprintf("Session %s: User: %s\nAssistant: %s", t.SessionID, t.Input, t.Output))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	if len(session) > 0 {
		lines := make([]string, 0, len(session))
		for _, t := range session {
			lines = append(lines, fmt.Sprintf("User: %s\nAssistant: %s", t.Input, t.Output))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	text := strings.Join(blocks, "\n")

	budget := c.maxTokens * CharsPerToken
	if len(text) > budget {
		text = text[len(text)-budget:]
	}

	tokens := CountTokens(text)
	if c.metrics != nil {
		c.metrics.ContextTokens.Observe(float64(tokens))
	}
	log.FromCtx(ctx).Debug().
		Str("session_id", sessionID).
		Int("chars", len(text)).
		Int("tokens", tokens).
		Msg("composed history context")

	return text, nil
}
