package memory

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tkOnce sync.Once
	tk     *tiktoken.Tiktoken
)

// CountTokens reports the cl100k_base token count of text. The encoding
// is loaded lazily; if it cannot be loaded the 4-characters-per-token
// approximation is used instead so the caller never fails. Counts feed
// logs and metrics only; the context budget itself stays character-based.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	tkOnce.Do(func() {
		tk, _ = tiktoken.GetEncoding("cl100k_base")
	})
	if tk == nil {
		return len(text) / 4
	}
	return len(tk.Encode(text, nil, nil))
}
