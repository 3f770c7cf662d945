package quality

import (
	"context"
	"strconv"
	"strings"

	"github.com/testhr/llamagate/internal/core"
	"github.com/testhr/llamagate/internal/observability"
	"github.com/testhr/llamagate/internal/service/memory"
	"github.com/testhr/llamagate/pkg/log"
)

// ListOutcome tags what the list-length check decided, so callers and
// tests can tell "no list was requested" apart from "the requested count
// could not be parsed" (which deliberately triggers no retry).
type ListOutcome string

const (
	ListNotRequested ListOutcome = "not_requested"
	ListSatisfied    ListOutcome = "satisfied"
	ListRetried      ListOutcome = "retried"
	ListParseFailed  ListOutcome = "parse_failed"
)

// CheckInput carries the raw completion plus everything needed to issue
// bounded regeneration calls against the same composed context.
type CheckInput struct {
	Prompt    string
	History   string
	Model     string
	MaxTokens int
	Response  string
}

// Result is the gate's verdict. Text is always usable; the gate never
// blocks a response, even when retries did not improve it.
type Result struct {
	Text            string
	List            ListOutcome
	EchoRetried     bool
	CompletionCalls int
}

// Gate post-processes completions: strips meta-commentary, enforces
// requested list lengths, and detects degenerate input echoes, issuing a
// bounded number of regeneration calls per failure category.
type Gate struct {
	completer      core.Completer
	maxListRetries int
	maxEchoRetries int
	metrics        *observability.Metrics
}

func NewGate(completer core.Completer, maxListRetries, maxEchoRetries int, metrics *observability.Metrics) *Gate {
	if maxListRetries < 0 {
		maxListRetries = 0
	}
	if maxEchoRetries < 0 {
		maxEchoRetries = 0
	}
	return &Gate{
		completer:      completer,
		maxListRetries: maxListRetries,
		maxEchoRetries: maxEchoRetries,
		metrics:        metrics,
	}
}

func (g *Gate) Check(ctx context.Context, in CheckInput) Result {
	res := Result{
		Text: StripMeta(in.Response),
		List: ListNotRequested,
	}

	g.checkListLength(ctx, in, &res)
	g.checkEcho(ctx, in, &res)

	return res
}

func (g *Gate) checkListLength(ctx context.Context, in CheckInput, res *Result) {
	expected, outcome := expectedListCount(in.Prompt)
	if outcome != "" {
		res.List = outcome
		return
	}

	if countListItems(res.Text) >= expected {
		res.List = ListSatisfied
		return
	}

	res.List = ListRetried
	for attempt := 0; attempt < g.maxListRetries; attempt++ {
		g.countRetry("list_length")
		text, ok := g.regenerate(ctx, in, memory.ListRetryInstruction(expected), res)
		if !ok {
			return
		}
		res.Text = text
		if countListItems(res.Text) >= expected {
			return
		}
	}
}

func (g *Gate) checkEcho(ctx context.Context, in CheckInput, res *Result) {
	wanted := strings.TrimSpace(in.Prompt)
	if strings.TrimSpace(res.Text) != wanted {
		return
	}

	res.EchoRetried = true
	for attempt := 0; attempt < g.maxEchoRetries; attempt++ {
		g.countRetry("echo")
		text, ok := g.regenerate(ctx, in, memory.NoEchoInstruction, res)
		if !ok {
			return
		}
		res.Text = text
		if strings.TrimSpace(res.Text) != wanted {
			return
		}
	}
}

// regenerate issues one more completion call with an adjusted instruction
// over the unchanged history context. Failures leave the current text in
// place: the gate degrades, it never fails the request.
func (g *Gate) regenerate(ctx context.Context, in CheckInput, instruction string, res *Result) (string, bool) {
	prompt := memory.BuildPrompt(instruction, in.History, in.Prompt)
	res.CompletionCalls++

	raw, err := g.completer.Complete(ctx, in.Model, prompt, in.MaxTokens)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("quality-gate regeneration failed, keeping previous response")
		return "", false
	}
	return StripMeta(raw), true
}

func (g *Gate) countRetry(reason string) {
	if g.metrics != nil {
		g.metrics.GateRetries.WithLabelValues(reason).Inc()
	}
}

// metaMarkers flag lines of model self-commentary about its own output
// format rather than content.
var metaMarkers = []string{"json syntax", "data structure", "object representing"}

// StripMeta removes meta-commentary lines: any line starting with "note:"
// or containing one of the known format-commentary phrases.
func StripMeta(response string) string {
	lines := strings.Split(response, "\n")
	kept := lines[:0]
	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(lower, "note:") {
			continue
		}
		if containsAny(lower, metaMarkers) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// expectedListCount parses the item count requested by prompts of the
// form "generate <n> ...". The second return is the terminal outcome when
// no enforcement should happen: ListNotRequested when the prompt does not
// ask to generate a numbered amount, ListParseFailed when it does but the
// token after "generate" is not a number.
func expectedListCount(prompt string) (int, ListOutcome) {
	fields := strings.Fields(prompt)
	for i, f := range fields {
		if strings.ToLower(f) != "generate" {
			continue
		}
		if i+1 >= len(fields) {
			return 0, ListParseFailed
		}
		n, err := strconv.Atoi(fields[i+1])
		if err != nil || n <= 0 {
			return 0, ListParseFailed
		}
		return n, ""
	}
	return 0, ListNotRequested
}

func countListItems(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*") {
			count++
		}
	}
	return count
}
